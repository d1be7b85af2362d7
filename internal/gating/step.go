package gating

// Step is one stage of the onboarding sequence. Each step's completion is a
// precondition for the next; the sequence can be entered at any step, e.g. a
// partially authenticated user resumes at the quiz.
type Step int

const (
	StepContract Step = iota
	StepAuth
	StepQuiz
	StepProfile
	StepDone
)

func (s Step) String() string {
	switch s {
	case StepContract:
		return "contract"
	case StepAuth:
		return "auth"
	case StepQuiz:
		return "quiz"
	case StepProfile:
		return "profile"
	case StepDone:
		return "done"
	}
	return "unknown"
}

// StepProgress records which onboarding stages have been completed.
type StepProgress struct {
	ContractAccepted bool
	Authenticated    bool
	QuizDone         bool
	ProfileDone      bool
}

// ResumeStep returns the first incomplete step. Guests skip authentication
// entirely.
func ResumeStep(p StepProgress, guest bool) Step {
	switch {
	case !p.ContractAccepted:
		return StepContract
	case !p.Authenticated && !guest:
		return StepAuth
	case !p.QuizDone:
		return StepQuiz
	case !p.ProfileDone:
		return StepProfile
	}
	return StepDone
}
