package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	Add      func(AddArgs) (Result, error)
	Done     func(IndexArgs) (Result, error)
	Delete   func(IndexArgs) (Result, error)
	Show     func(ShowArgs) (Result, error)
	Study    func(MinutesArgs) (Result, error)
	Break    func(MinutesArgs) (Result, error)
	Goal     func(GoalArgs) (Result, error)
	Exam     func(ExamArgs) (Result, error)
	Material func(MaterialArgs) (Result, error)
	Toggle   func(ToggleArgs) (Result, error)
	Export   func(PathArgs) (Result, error)
	Import   func(PathArgs) (Result, error)
	Clear    func() (Result, error)
}

func missing(t Type) error {
	return &CommandError{Code: ErrCodeHandlerMissing, Message: fmt.Sprintf("%s handler not configured", t)}
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeAdd:
		if handlers.Add == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Add(*cmd.Add)
	case TypeDone:
		if handlers.Done == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Done(*cmd.Index)
	case TypeDelete:
		if handlers.Delete == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Delete(*cmd.Index)
	case TypeShow:
		if handlers.Show == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Show(*cmd.Show)
	case TypeStudy:
		if handlers.Study == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Study(*cmd.Minutes)
	case TypeBreak:
		if handlers.Break == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Break(*cmd.Minutes)
	case TypeGoal:
		if handlers.Goal == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Goal(*cmd.Goal)
	case TypeExam:
		if handlers.Exam == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Exam(*cmd.Exam)
	case TypeMaterial:
		if handlers.Material == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Material(*cmd.Material)
	case TypeToggle:
		if handlers.Toggle == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Toggle(*cmd.Toggle)
	case TypeExport:
		if handlers.Export == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Export(*cmd.Path)
	case TypeImport:
		if handlers.Import == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Import(*cmd.Path)
	case TypeClear:
		if handlers.Clear == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Clear()
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}
