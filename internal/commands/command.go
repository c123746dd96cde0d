package commands

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sandeepkv93/studyd/internal/model"
)

type Type string

const (
	TypeAdd      Type = "add"
	TypeDone     Type = "done"
	TypeDelete   Type = "delete"
	TypeShow     Type = "show"
	TypeStudy    Type = "study"
	TypeBreak    Type = "break"
	TypeGoal     Type = "goal"
	TypeExam     Type = "exam"
	TypeMaterial Type = "material"
	TypeToggle   Type = "toggle"
	TypeExport   Type = "export"
	TypeImport   Type = "import"
	TypeClear    Type = "clear"
)

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

// AddArgs is parsed from `<title words> @date HH:MM !priority #subject ~minutes`.
// Date may be "today" or "tomorrow"; see ResolveDate.
type AddArgs struct {
	Title    string
	Date     string
	Time     string
	Priority string
	Subject  string
	Minutes  int
}

// IndexArgs addresses a 1-based row. Target is TargetTask unless /delete
// names another collection, as in `/delete goal 2`.
type IndexArgs struct {
	Target string
	Index  int
}

const (
	TargetTask     = "task"
	TargetGoal     = "goal"
	TargetExam     = "exam"
	TargetMaterial = "material"
)

type ShowArgs struct {
	Filter string
}

type MinutesArgs struct {
	Minutes int
}

type GoalArgs struct {
	Title    string
	Deadline string
	Subject  string
}

type ExamArgs struct {
	Title   string
	Date    string
	Time    string
	Minutes int
	Subject string
	Kind    string
}

type MaterialArgs struct {
	Title   string
	Subject string
	URL     string
}

type ToggleArgs struct {
	Setting string
}

type PathArgs struct {
	Path string
}

type Command struct {
	Type     Type
	Raw      string
	Add      *AddArgs
	Index    *IndexArgs
	Show     *ShowArgs
	Minutes  *MinutesArgs
	Goal     *GoalArgs
	Exam     *ExamArgs
	Material *MaterialArgs
	Toggle   *ToggleArgs
	Path     *PathArgs
}

// Settings that /toggle accepts.
var ToggleSettings = []string{"dark", "notifications", "sounds", "reminders"}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch Type(head) {
	case TypeAdd:
		return parseAdd(input, args)
	case TypeDone, TypeDelete:
		return parseIndex(input, Type(head), args)
	case TypeShow:
		return parseShow(input, args)
	case TypeStudy, TypeBreak:
		return parseMinutes(input, Type(head), args)
	case TypeGoal:
		return parseGoal(input, args)
	case TypeExam:
		return parseExam(input, args)
	case TypeMaterial:
		return parseMaterial(input, args)
	case TypeToggle:
		return parseToggle(input, args)
	case TypeExport, TypeImport:
		return parsePath(input, Type(head), args)
	case TypeClear:
		return parseClear(input, args)
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

// tokens splits args into plain words and the sigil-prefixed fields.
type tokens struct {
	words    []string
	date     string
	clock    string
	priority string
	subject  string
	minutes  int
	url      string
}

func scan(args []string) (tokens, error) {
	var tk tokens
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case strings.HasPrefix(arg, "@") && len(arg) > 1:
			tk.date = strings.ToLower(arg[1:])
			if i+1 < len(args) && looksLikeClock(args[i+1]) {
				tk.clock = args[i+1]
				i++
			}
		case strings.HasPrefix(arg, "!") && len(arg) > 1:
			tk.priority = strings.ToLower(arg[1:])
		case strings.HasPrefix(arg, "#") && len(arg) > 1:
			tk.subject = strings.ToLower(arg[1:])
		case strings.HasPrefix(arg, "~") && len(arg) > 1:
			n, err := strconv.Atoi(arg[1:])
			if err != nil || n <= 0 {
				return tokens{}, invalid("duration %q must be a positive number of minutes", arg)
			}
			tk.minutes = n
		case strings.HasPrefix(arg, "http://") || strings.HasPrefix(arg, "https://"):
			tk.url = arg
		default:
			tk.words = append(tk.words, arg)
		}
	}
	return tk, nil
}

func (tk tokens) title() string {
	return strings.TrimSpace(strings.Join(tk.words, " "))
}

func looksLikeClock(s string) bool {
	_, _, err := model.ParseClock(s)
	return err == nil
}

func parseAdd(raw string, args []string) (Command, error) {
	tk, err := scan(args)
	if err != nil {
		return Command{}, err
	}
	if tk.title() == "" {
		return Command{}, invalid("add requires a title")
	}
	if tk.date == "" || tk.clock == "" {
		return Command{}, invalid("add requires @YYYY-MM-DD HH:MM")
	}
	if tk.priority != "" {
		if _, err := model.ParsePriority(tk.priority); err != nil {
			return Command{}, invalid("priority must be low, medium or high")
		}
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &AddArgs{
		Title:    tk.title(),
		Date:     tk.date,
		Time:     tk.clock,
		Priority: tk.priority,
		Subject:  tk.subject,
		Minutes:  tk.minutes,
	}}, nil
}

func parseIndex(raw string, typ Type, args []string) (Command, error) {
	target := TargetTask
	if typ == TypeDelete && len(args) == 2 {
		switch t := strings.ToLower(args[0]); t {
		case TargetTask, TargetGoal, TargetExam, TargetMaterial:
			target = t
			args = args[1:]
		default:
			return Command{}, invalid("cannot delete %q; want task, goal, exam or material", args[0])
		}
	}
	if len(args) != 1 {
		return Command{}, invalid("%s requires a %s number", typ, target)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n <= 0 {
		return Command{}, invalid("%s number %q must be a positive integer", target, args[0])
	}
	return Command{Type: typ, Raw: raw, Index: &IndexArgs{Target: target, Index: n}}, nil
}

func parseShow(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, invalid("show requires a filter")
	}
	return Command{Type: TypeShow, Raw: raw, Show: &ShowArgs{Filter: strings.ToLower(args[0])}}, nil
}

func parseMinutes(raw string, typ Type, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, invalid("%s requires minutes", typ)
	}
	n, err := strconv.Atoi(strings.TrimSuffix(args[0], "m"))
	if err != nil || n <= 0 || n > 24*60 {
		return Command{}, invalid("minutes %q must be between 1 and 1440", args[0])
	}
	return Command{Type: typ, Raw: raw, Minutes: &MinutesArgs{Minutes: n}}, nil
}

func parseGoal(raw string, args []string) (Command, error) {
	tk, err := scan(args)
	if err != nil {
		return Command{}, err
	}
	if tk.title() == "" {
		return Command{}, invalid("goal requires a title")
	}
	if tk.date == "" {
		return Command{}, invalid("goal requires @deadline")
	}
	return Command{Type: TypeGoal, Raw: raw, Goal: &GoalArgs{Title: tk.title(), Deadline: tk.date, Subject: tk.subject}}, nil
}

func parseExam(raw string, args []string) (Command, error) {
	tk, err := scan(args)
	if err != nil {
		return Command{}, err
	}
	if tk.title() == "" {
		return Command{}, invalid("exam requires a title")
	}
	if tk.date == "" || tk.clock == "" {
		return Command{}, invalid("exam requires @YYYY-MM-DD HH:MM")
	}
	if tk.minutes == 0 {
		return Command{}, invalid("exam requires ~minutes")
	}
	return Command{Type: TypeExam, Raw: raw, Exam: &ExamArgs{
		Title:   tk.title(),
		Date:    tk.date,
		Time:    tk.clock,
		Minutes: tk.minutes,
		Subject: tk.subject,
		Kind:    tk.priority,
	}}, nil
}

func parseMaterial(raw string, args []string) (Command, error) {
	tk, err := scan(args)
	if err != nil {
		return Command{}, err
	}
	if tk.title() == "" {
		return Command{}, invalid("material requires a title")
	}
	return Command{Type: TypeMaterial, Raw: raw, Material: &MaterialArgs{Title: tk.title(), Subject: tk.subject, URL: tk.url}}, nil
}

func parseToggle(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, invalid("toggle requires one of %s", strings.Join(ToggleSettings, ", "))
	}
	name := strings.ToLower(args[0])
	for _, known := range ToggleSettings {
		if name == known {
			return Command{Type: TypeToggle, Raw: raw, Toggle: &ToggleArgs{Setting: name}}, nil
		}
	}
	return Command{}, invalid("unknown setting %q", args[0])
}

func parsePath(raw string, typ Type, args []string) (Command, error) {
	path := strings.TrimSpace(strings.Join(args, " "))
	if path == "" && typ == TypeImport {
		return Command{}, invalid("import requires a file path")
	}
	return Command{Type: typ, Raw: raw, Path: &PathArgs{Path: path}}, nil
}

// parseClear insists on an explicit confirmation word since the wipe
// cannot be undone.
func parseClear(raw string, args []string) (Command, error) {
	if len(args) != 1 || strings.ToLower(args[0]) != "confirm" {
		return Command{}, invalid("clear wipes all data; type /clear confirm")
	}
	return Command{Type: TypeClear, Raw: raw}, nil
}

// ResolveDate expands "today" and "tomorrow" relative to now and passes
// anything else through unchanged.
func ResolveDate(raw string, now time.Time) string {
	switch strings.ToLower(raw) {
	case "today":
		return model.DayOf(now)
	case "tomorrow":
		return model.DayOf(now.AddDate(0, 0, 1))
	default:
		return raw
	}
}
