// Package todo holds the Todo record and the ordered List that collects them.
//
// Lists are not safe for concurrent use; callers that share one across
// goroutines serialize access themselves.
package todo

const (
	boxDone    = "[X]"
	boxPending = "[ ]"
)

// Todo is a single task. Fields may be assigned directly.
type Todo struct {
	Title       string
	Description string
	Done        bool
}

// New returns a pending Todo. The description is optional and defaults to "".
func New(title string, description ...string) (*Todo, error) {
	if title == "" {
		return nil, &ArgumentError{Name: "title", Reason: "required"}
	}
	if len(description) > 1 {
		return nil, &ArgumentError{Name: "description", Reason: "at most one allowed"}
	}
	t := &Todo{Title: title}
	if len(description) == 1 {
		t.Description = description[0]
	}
	return t, nil
}

func (t *Todo) MarkDone()    { t.Done = true }
func (t *Todo) MarkUndone()  { t.Done = false }
func (t *Todo) IsDone() bool { return t.Done }

func (t *Todo) String() string {
	box := boxPending
	if t.Done {
		box = boxDone
	}
	return box + " " + t.Title
}

// Equal compares field by field, but only against a Todo or *Todo.
// Types that embed Todo are a different type and never compare equal.
func (t *Todo) Equal(other any) bool {
	if t == nil {
		return false
	}
	var o Todo
	switch v := other.(type) {
	case *Todo:
		if v == nil {
			return false
		}
		o = *v
	case Todo:
		o = v
	default:
		return false
	}
	return t.Title == o.Title && t.Description == o.Description && t.Done == o.Done
}
