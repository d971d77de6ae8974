package submit

import "strings"

// Form models the submission form as an immutable value: every mutation
// returns a new Form, so stale copies never observe later edits. Text and
// file attachment are mutually exclusive, matching Submission's
// exactly-one-of rule. Preview handles are single-owner: transitions that
// displace an attached preview hand it back to the caller for release.
type Form struct {
	Text     string
	FileName string
	FileSize int64
	Preview  *Preview

	// Submitting marks an outstanding submission; the form refuses a second
	// submit until FinishSubmit clears it.
	Submitting bool
}

// WithText returns the form with text content set and any attachment cleared.
// If a preview is attached, detach it first so its resources get released.
func (f Form) WithText(text string) Form {
	f.Text = text
	f.FileName = ""
	f.FileSize = 0
	f.Preview = nil
	return f
}

// WithFile returns the form with an attachment set and any text cleared.
func (f Form) WithFile(name string, size int64) Form {
	f.Text = ""
	f.FileName = name
	f.FileSize = size
	return f
}

// Attach sets the attachment from a preview, clearing any text. It returns
// the displaced preview, which the caller must Close.
func (f Form) Attach(p *Preview) (Form, *Preview) {
	prev := f.Preview
	f = f.WithFile(p.FileName, p.Size)
	f.Preview = p
	return f, prev
}

// Detach clears the attachment, returning the preview for the caller to Close.
func (f Form) Detach() (Form, *Preview) {
	prev := f.Preview
	f.FileName = ""
	f.FileSize = 0
	f.Preview = nil
	return f, prev
}

// Reset returns the empty form. Detach first if a preview is attached.
func (f Form) Reset() Form {
	return Form{}
}

// HasText reports whether the form carries non-blank text.
func (f Form) HasText() bool {
	return strings.TrimSpace(f.Text) != ""
}

// HasFile reports whether the form carries an attachment.
func (f Form) HasFile() bool {
	return f.FileName != ""
}

// CanSubmit reports whether the form holds exactly one kind of content and
// has no submission outstanding.
func (f Form) CanSubmit() bool {
	if f.Submitting {
		return false
	}
	return f.HasText() != f.HasFile()
}

// BeginSubmit marks a submission in flight. It reports false, leaving the
// form unchanged, when the form cannot submit or one is already outstanding.
func (f Form) BeginSubmit() (Form, bool) {
	if !f.CanSubmit() {
		return f, false
	}
	f.Submitting = true
	return f, true
}

// FinishSubmit ends the in-flight submission. On success the form resets and
// any attached preview is returned for release; on failure the input is
// preserved so the user can retry.
func (f Form) FinishSubmit(ok bool) (Form, *Preview) {
	if !ok {
		f.Submitting = false
		return f, nil
	}
	prev := f.Preview
	return Form{}, prev
}
