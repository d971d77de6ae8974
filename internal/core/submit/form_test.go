package submit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormTransitions(t *testing.T) {
	var empty Form

	t.Run("EmptyFormCannotSubmit", func(t *testing.T) {
		assert.False(t, empty.CanSubmit())
		assert.False(t, empty.HasText())
		assert.False(t, empty.HasFile())
	})

	t.Run("WithTextClearsFile", func(t *testing.T) {
		form := empty.WithFile("clip.mp4", 1024).WithText("a claim")
		assert.True(t, form.HasText())
		assert.False(t, form.HasFile())
		assert.True(t, form.CanSubmit())
	})

	t.Run("WithFileClearsText", func(t *testing.T) {
		form := empty.WithText("a claim").WithFile("clip.mp4", 1024)
		assert.False(t, form.HasText())
		assert.True(t, form.HasFile())
		assert.Equal(t, "clip.mp4", form.FileName)
		assert.Equal(t, int64(1024), form.FileSize)
		assert.True(t, form.CanSubmit())
	})

	t.Run("BlankTextDoesNotCount", func(t *testing.T) {
		form := empty.WithText("   ")
		assert.False(t, form.HasText())
		assert.False(t, form.CanSubmit())
	})

	t.Run("ResetReturnsEmpty", func(t *testing.T) {
		form := empty.WithText("a claim").Reset()
		assert.Equal(t, Form{}, form)
	})

	t.Run("TransitionsDoNotMutateOriginal", func(t *testing.T) {
		original := empty.WithText("first")
		_ = original.WithText("second")
		assert.Equal(t, "first", original.Text)
	})
}

func TestFormPreviewOwnership(t *testing.T) {
	var empty Form

	newPreview := func(name string) *Preview {
		return &Preview{FileName: name, Size: 64}
	}

	t.Run("AttachReturnsDisplacedPreview", func(t *testing.T) {
		first := newPreview("a.png")
		second := newPreview("b.png")

		form, prev := empty.Attach(first)
		assert.Nil(t, prev)
		assert.Equal(t, "a.png", form.FileName)

		form, prev = form.Attach(second)
		assert.Same(t, first, prev)
		assert.Equal(t, "b.png", form.FileName)
	})

	t.Run("DetachReleasesAttachment", func(t *testing.T) {
		p := newPreview("a.png")
		form, _ := empty.Attach(p)

		form, prev := form.Detach()
		assert.Same(t, p, prev)
		assert.False(t, form.HasFile())
		assert.Nil(t, form.Preview)
	})
}

func TestFormSubmitGuard(t *testing.T) {
	var empty Form

	t.Run("BeginSubmitRequiresContent", func(t *testing.T) {
		_, ok := empty.BeginSubmit()
		assert.False(t, ok)
	})

	t.Run("BlocksDuplicateSubmission", func(t *testing.T) {
		form, ok := empty.WithText("a claim").BeginSubmit()
		assert.True(t, ok)
		assert.False(t, form.CanSubmit())

		_, ok = form.BeginSubmit()
		assert.False(t, ok)
	})

	t.Run("FailedSubmitPreservesInput", func(t *testing.T) {
		form, _ := empty.WithText("a claim").BeginSubmit()
		form, prev := form.FinishSubmit(false)
		assert.Nil(t, prev)
		assert.Equal(t, "a claim", form.Text)
		assert.True(t, form.CanSubmit())
	})

	t.Run("SuccessfulSubmitResetsAndReleases", func(t *testing.T) {
		p := &Preview{FileName: "a.png", Size: 64}
		form, _ := empty.Attach(p)
		form, ok := form.BeginSubmit()
		assert.True(t, ok)

		form, prev := form.FinishSubmit(true)
		assert.Same(t, p, prev)
		assert.Equal(t, Form{}, form)
	})
}
