// Package serializer validates wire payloads and renders entities back
// out. It is deliberately independent of gin and of the repositories:
// handlers bind JSON into the input structs and call the conversion
// methods, which either produce an entity or an *errs.ValidationError.
package serializer

import (
	"strings"

	"personal-apis/internal/domain"
	"personal-apis/internal/errs"
)

const (
	msgRequired  = "This field is required."
	msgBlank     = "This field may not be blank."
	titleMaxLen  = 255
	msgTitleLong = "Ensure this field has no more than 255 characters."
)

// TaskPayload 任务的线格式。owner 为所属用户 id
type TaskPayload struct {
	ID          uint   `json:"id"`
	Owner       uint   `json:"owner"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Done        bool   `json:"done"`
}

// Task renders a task. Every field is emitted, nothing is redacted.
func Task(t domain.Task) TaskPayload {
	return TaskPayload{
		ID:          t.ID,
		Owner:       t.OwnerID,
		Title:       t.Title,
		Description: t.Description,
		Done:        t.Done,
	}
}

func Tasks(list []domain.Task) []TaskPayload {
	out := make([]TaskPayload, len(list))
	for i := range list {
		out[i] = Task(list[i])
	}
	return out
}

// TaskInput is the inbound task body. id/owner 即使出现在 payload 中也
// 不会被解码：两者只能由服务端赋值。指针区分「缺失」与「零值」。
type TaskInput struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Done        *bool   `json:"done"`
}

func (in TaskInput) validateTitle(v *errs.ValidationError) {
	switch {
	case in.Title == nil:
		v.Add("title", msgRequired)
	case strings.TrimSpace(*in.Title) == "":
		v.Add("title", msgBlank)
	case len(*in.Title) > titleMaxLen:
		v.Add("title", msgTitleLong)
	}
}

// NewTask builds a fresh task from a create payload. The caller assigns
// the owner; done defaults to false when absent.
func (in TaskInput) NewTask() (domain.Task, error) {
	v := errs.NewValidation()
	in.validateTitle(v)
	if in.Description == nil {
		v.Add("description", msgRequired)
	}
	if !v.Empty() {
		return domain.Task{}, v
	}
	t := domain.Task{
		Title:       *in.Title,
		Description: *in.Description,
	}
	if in.Done != nil {
		t.Done = *in.Done
	}
	return t, nil
}

// Replace applies full-update semantics: the same field requirements as
// create, and an absent done resets to the default. Owner and id on the
// target are untouched.
func (in TaskInput) Replace(t *domain.Task) error {
	fresh, err := in.NewTask()
	if err != nil {
		return err
	}
	t.Title = fresh.Title
	t.Description = fresh.Description
	t.Done = fresh.Done
	return nil
}

// Apply applies partial-update semantics: fields present in the payload
// are validated individually and written, the rest stay as they were.
func (in TaskInput) Apply(t *domain.Task) error {
	v := errs.NewValidation()
	if in.Title != nil {
		in.validateTitle(v)
	}
	if !v.Empty() {
		return v
	}
	if in.Title != nil {
		t.Title = *in.Title
	}
	if in.Description != nil {
		t.Description = *in.Description
	}
	if in.Done != nil {
		t.Done = *in.Done
	}
	return nil
}
