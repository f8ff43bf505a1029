// Package store holds the in-memory working copy of the presentation being
// edited, plus the undo history over it. Durable persistence is the
// presentation service's concern; this store is what the interaction engine
// and renderer read and mutate frame by frame.
package store

import (
	"errors"
	"fmt"

	"github.com/deckforge/deckforge/backend-go/internal/document"
)

var (
	ErrSlideNotFound   = errors.New("slide not found")
	ErrElementNotFound = errors.New("element not found")
	ErrLastSlide       = errors.New("cannot delete the last slide")
)

// Memory is the working copy of one presentation. All access happens on the
// session's event goroutine, so there is no internal locking.
type Memory struct {
	pres *document.Presentation
}

// NewMemory wraps a presentation. The store owns the value from here on.
func NewMemory(pres *document.Presentation) *Memory {
	return &Memory{pres: pres}
}

// Presentation exposes the live document for rendering and serialization.
func (m *Memory) Presentation() *document.Presentation { return m.pres }

// Replace swaps in a whole new presentation state, as undo/redo does.
func (m *Memory) Replace(pres *document.Presentation) { m.pres = pres }

// Snapshot returns a deep copy of the current state for the history stack.
func (m *Memory) Snapshot() *document.Presentation { return m.pres.Clone() }

func (m *Memory) slide(slideID string) (*document.Slide, error) {
	if s := m.pres.SlideByID(slideID); s != nil {
		return s, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrSlideNotFound, slideID)
}

// UpdateElement applies a partial change to one element.
func (m *Memory) UpdateElement(slideID, elementID string, changes document.ElementPatch) error {
	s, err := m.slide(slideID)
	if err != nil {
		return err
	}
	el := s.ElementByID(elementID)
	if el == nil {
		return fmt.Errorf("%w: %s", ErrElementNotFound, elementID)
	}
	changes.Apply(el)
	return nil
}

// UpdateElements applies a batch of changes; from the caller's point of view
// the batch lands in the same frame. Unknown ids fail the whole batch before
// anything is written.
func (m *Memory) UpdateElements(slideID string, updates []document.ElementUpdate) error {
	s, err := m.slide(slideID)
	if err != nil {
		return err
	}
	els := make([]*document.Element, len(updates))
	for i, u := range updates {
		el := s.ElementByID(u.ID)
		if el == nil {
			return fmt.Errorf("%w: %s", ErrElementNotFound, u.ID)
		}
		els[i] = el
	}
	for i, u := range updates {
		u.Changes.Apply(els[i])
	}
	return nil
}

// AddElement appends an element to a slide.
func (m *Memory) AddElement(slideID string, el document.Element) error {
	s, err := m.slide(slideID)
	if err != nil {
		return err
	}
	s.Elements = append(s.Elements, el)
	return nil
}

// DeleteElements removes the named elements. Missing ids are ignored so a
// delete arriving after an undo is harmless.
func (m *Memory) DeleteElements(slideID string, ids []string) error {
	s, err := m.slide(slideID)
	if err != nil {
		return err
	}
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	kept := s.Elements[:0]
	for _, el := range s.Elements {
		if !drop[el.ID] {
			kept = append(kept, el)
		}
	}
	s.Elements = kept
	return nil
}

// ReorderElement moves an element to a new z position and reassigns dense
// indices 0..n-1 across the slide.
func (m *Memory) ReorderElement(slideID, elementID string, newZ int) error {
	s, err := m.slide(slideID)
	if err != nil {
		return err
	}
	el := s.ElementByID(elementID)
	if el == nil {
		return fmt.Errorf("%w: %s", ErrElementNotFound, elementID)
	}
	if newZ < 0 {
		newZ = 0
	}
	order := document.ZOrder(s)
	ids := make([]string, 0, len(order))
	for _, idx := range order {
		if s.Elements[idx].ID != elementID {
			ids = append(ids, s.Elements[idx].ID)
		}
	}
	if newZ > len(ids) {
		newZ = len(ids)
	}
	ids = append(ids[:newZ], append([]string{elementID}, ids[newZ:]...)...)
	for z, id := range ids {
		s.ElementByID(id).ZIndex = z
	}
	return nil
}

// AddSlide appends a slide to the presentation.
func (m *Memory) AddSlide(s document.Slide) {
	m.pres.Slides = append(m.pres.Slides, s)
}

// DeleteSlide removes a slide by id. A presentation always keeps at least
// one slide; editor sessions assume a bound slide exists.
func (m *Memory) DeleteSlide(slideID string) error {
	for i := range m.pres.Slides {
		if m.pres.Slides[i].ID == slideID {
			if len(m.pres.Slides) == 1 {
				return ErrLastSlide
			}
			m.pres.Slides = append(m.pres.Slides[:i], m.pres.Slides[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrSlideNotFound, slideID)
}

// MoveSlide reorders a slide to the given index.
func (m *Memory) MoveSlide(slideID string, to int) error {
	from := -1
	for i := range m.pres.Slides {
		if m.pres.Slides[i].ID == slideID {
			from = i
			break
		}
	}
	if from < 0 {
		return fmt.Errorf("%w: %s", ErrSlideNotFound, slideID)
	}
	if to < 0 {
		to = 0
	}
	if to >= len(m.pres.Slides) {
		to = len(m.pres.Slides) - 1
	}
	s := m.pres.Slides[from]
	rest := append(m.pres.Slides[:from], m.pres.Slides[from+1:]...)
	m.pres.Slides = append(rest[:to], append([]document.Slide{s}, rest[to:]...)...)
	return nil
}

// SlideEditor binds the memory store to one slide, giving the interaction
// machine the narrow mutation surface it needs.
type SlideEditor struct {
	mem     *Memory
	slideID string
}

// Editor returns a slide-scoped view. The caller is expected to have
// verified the slide exists.
func (m *Memory) Editor(slideID string) *SlideEditor {
	return &SlideEditor{mem: m, slideID: slideID}
}

func (e *SlideEditor) SlideID() string { return e.slideID }

func (e *SlideEditor) Slide() *document.Slide {
	return e.mem.pres.SlideByID(e.slideID)
}

func (e *SlideEditor) UpdateElement(id string, changes document.ElementPatch) error {
	return e.mem.UpdateElement(e.slideID, id, changes)
}

func (e *SlideEditor) UpdateElements(updates []document.ElementUpdate) error {
	return e.mem.UpdateElements(e.slideID, updates)
}

func (e *SlideEditor) AddElement(el document.Element) error {
	return e.mem.AddElement(e.slideID, el)
}

func (e *SlideEditor) DeleteElements(ids []string) error {
	return e.mem.DeleteElements(e.slideID, ids)
}
