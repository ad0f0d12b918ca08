package commands

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sandeepkv93/evcal/internal/model"
)

type Type string

const (
	TypeAdd    Type = "add"
	TypeEdit   Type = "edit"
	TypeDelete Type = "delete"
	TypeSearch Type = "search"
	TypeGoto   Type = "goto"
	TypeToday  Type = "today"
	TypeAll    Type = "all"
	TypeExport Type = "export"
	TypeImport Type = "import"
	TypeClear  Type = "clear"
	TypeTheme  Type = "theme"
)

var aliases = map[string]Type{
	"new": TypeAdd,
	"rm":  TypeDelete,
	"del": TypeDelete,
	"/":   TypeSearch,
	"go":  TypeGoto,
}

const defaultExportPath = "events.json"

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func invalid(format string, args ...any) error {
	return &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

// AddArgs is "add <date> <time> <title...> [#category]".
type AddArgs struct {
	Fields model.EventFields
}

type IDArgs struct {
	ID int64
}

type SearchArgs struct {
	Term string
}

// GotoArgs carries a month and, for a full date, the day to select.
type GotoArgs struct {
	Year  int
	Month time.Month
	Date  string
}

type PathArgs struct {
	Path string
}

type ThemeArgs struct {
	// Theme is empty for a toggle.
	Theme string
}

type Command struct {
	Type   Type
	Raw    string
	Add    *AddArgs
	ID     *IDArgs
	Search *SearchArgs
	Goto   *GotoArgs
	Path   *PathArgs
	Theme  *ThemeArgs
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	raw = strings.TrimSpace(strings.TrimPrefix(raw, ":"))
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]
	typ := Type(head)
	if alias, ok := aliases[head]; ok {
		typ = alias
	}

	switch typ {
	case TypeAdd:
		return parseAdd(input, args)
	case TypeEdit, TypeDelete:
		return parseID(input, typ, args)
	case TypeSearch:
		return Command{Type: TypeSearch, Raw: input, Search: &SearchArgs{Term: strings.Join(args, " ")}}, nil
	case TypeGoto:
		return parseGoto(input, args)
	case TypeToday, TypeAll, TypeClear:
		return Command{Type: typ, Raw: input}, nil
	case TypeExport:
		path := defaultExportPath
		if len(args) > 0 {
			path = strings.Join(args, " ")
		}
		return Command{Type: TypeExport, Raw: input, Path: &PathArgs{Path: path}}, nil
	case TypeImport:
		if len(args) == 0 {
			return Command{}, invalid("import requires a file path")
		}
		return Command{Type: TypeImport, Raw: input, Path: &PathArgs{Path: strings.Join(args, " ")}}, nil
	case TypeTheme:
		return parseTheme(input, args)
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseAdd(raw string, args []string) (Command, error) {
	if len(args) < 3 {
		return Command{}, invalid("add requires date, time and title")
	}
	fields := model.EventFields{Date: args[0], Time: args[1]}
	titleWords := make([]string, 0, len(args)-2)
	for _, word := range args[2:] {
		if strings.HasPrefix(word, "#") && len(word) > 1 {
			fields.Category = categoryFromTag(word[1:])
			continue
		}
		titleWords = append(titleWords, word)
	}
	fields.Title = strings.Join(titleWords, " ")
	return Command{Type: TypeAdd, Raw: raw, Add: &AddArgs{Fields: fields.Normalize()}}, nil
}

// categoryFromTag matches known categories case-insensitively and keeps
// other tags verbatim.
func categoryFromTag(tag string) string {
	for _, c := range model.Categories() {
		if strings.EqualFold(string(c), tag) {
			return string(c)
		}
	}
	return tag
}

func parseID(raw string, typ Type, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, invalid("%s requires an event id", typ)
	}
	id, err := strconv.ParseInt(strings.TrimPrefix(args[0], "#"), 10, 64)
	if err != nil || id <= 0 {
		return Command{}, invalid("invalid event id: %s", args[0])
	}
	return Command{Type: typ, Raw: raw, ID: &IDArgs{ID: id}}, nil
}

func parseGoto(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, invalid("goto requires YYYY-MM or YYYY-MM-DD")
	}
	if day, err := time.Parse(model.DateLayout, args[0]); err == nil {
		return Command{Type: TypeGoto, Raw: raw, Goto: &GotoArgs{Year: day.Year(), Month: day.Month(), Date: model.ISODate(day)}}, nil
	}
	month, err := time.Parse("2006-01", args[0])
	if err != nil {
		return Command{}, invalid("invalid month: %s", args[0])
	}
	return Command{Type: TypeGoto, Raw: raw, Goto: &GotoArgs{Year: month.Year(), Month: month.Month()}}, nil
}

func parseTheme(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{Type: TypeTheme, Raw: raw, Theme: &ThemeArgs{}}, nil
	}
	switch theme := strings.ToLower(args[0]); theme {
	case "light", "dark":
		return Command{Type: TypeTheme, Raw: raw, Theme: &ThemeArgs{Theme: theme}}, nil
	default:
		return Command{}, invalid("theme must be light or dark")
	}
}
