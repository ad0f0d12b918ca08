package commands

import "fmt"

type Result struct {
	Message string
}

// Handlers maps each command to its action. A nil handler yields a
// handler_missing error.
type Handlers struct {
	Add    func(AddArgs) (Result, error)
	Edit   func(IDArgs) (Result, error)
	Delete func(IDArgs) (Result, error)
	Search func(SearchArgs) (Result, error)
	Goto   func(GotoArgs) (Result, error)
	Today  func() (Result, error)
	All    func() (Result, error)
	Export func(PathArgs) (Result, error)
	Import func(PathArgs) (Result, error)
	Clear  func() (Result, error)
	Theme  func(ThemeArgs) (Result, error)
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeAdd:
		if handlers.Add == nil {
			return missing(cmd.Type)
		}
		return handlers.Add(*cmd.Add)
	case TypeEdit:
		if handlers.Edit == nil {
			return missing(cmd.Type)
		}
		return handlers.Edit(*cmd.ID)
	case TypeDelete:
		if handlers.Delete == nil {
			return missing(cmd.Type)
		}
		return handlers.Delete(*cmd.ID)
	case TypeSearch:
		if handlers.Search == nil {
			return missing(cmd.Type)
		}
		return handlers.Search(*cmd.Search)
	case TypeGoto:
		if handlers.Goto == nil {
			return missing(cmd.Type)
		}
		return handlers.Goto(*cmd.Goto)
	case TypeToday:
		if handlers.Today == nil {
			return missing(cmd.Type)
		}
		return handlers.Today()
	case TypeAll:
		if handlers.All == nil {
			return missing(cmd.Type)
		}
		return handlers.All()
	case TypeExport:
		if handlers.Export == nil {
			return missing(cmd.Type)
		}
		return handlers.Export(*cmd.Path)
	case TypeImport:
		if handlers.Import == nil {
			return missing(cmd.Type)
		}
		return handlers.Import(*cmd.Path)
	case TypeClear:
		if handlers.Clear == nil {
			return missing(cmd.Type)
		}
		return handlers.Clear()
	case TypeTheme:
		if handlers.Theme == nil {
			return missing(cmd.Type)
		}
		return handlers.Theme(*cmd.Theme)
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}

func missing(t Type) (Result, error) {
	return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: fmt.Sprintf("%s handler not configured", t)}
}
