// Package presentation is the persistence-facing service for decks: CRUD
// over presentation rows plus versioned JSONB document snapshots. REST
// mutations load the latest snapshot, apply the change through the in-memory
// store and append a new version.
package presentation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/deckforge/deckforge/backend-go/internal/db"
	"github.com/deckforge/deckforge/backend-go/internal/document"
	"github.com/deckforge/deckforge/backend-go/internal/store"
	"github.com/deckforge/deckforge/backend-go/internal/typeid"
)

var (
	ErrNotFound  = errors.New("presentation not found")
	ErrForbidden = errors.New("forbidden")
)

type Service struct {
	queries *db.Queries
}

func NewService(queries *db.Queries) *Service {
	return &Service{queries: queries}
}

type Presentation struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	OwnerID   string `json:"ownerId"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

func (s *Service) Create(ctx context.Context, title, ownerID string) (*Presentation, error) {
	presentationID := typeid.NewPresentationID()

	dbPres, err := s.queries.CreatePresentation(ctx, db.CreatePresentationParams{
		ID:      presentationID,
		Title:   title,
		OwnerID: ownerID,
		Width:   document.DefaultWidth,
		Height:  document.DefaultHeight,
	})
	if err != nil {
		return nil, fmt.Errorf("create presentation: %w", err)
	}

	// Seed the first snapshot with a single empty slide.
	doc := document.NewEmptyPresentation(presentationID, typeid.NewSlideID(), title)
	docJSON, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal empty document: %w", err)
	}

	_, err = s.queries.CreateSnapshot(ctx, db.CreateSnapshotParams{
		ID:             typeid.NewSnapshotID(),
		PresentationID: presentationID,
		Document:       docJSON,
	})
	if err != nil {
		return nil, fmt.Errorf("create initial snapshot: %w", err)
	}

	return dbPresToPresentation(dbPres), nil
}

func (s *Service) Get(ctx context.Context, presentationID, userID string) (*Presentation, error) {
	dbPres, err := s.owned(ctx, presentationID, userID)
	if err != nil {
		return nil, err
	}
	return dbPresToPresentation(dbPres), nil
}

func (s *Service) List(ctx context.Context, userID string) ([]Presentation, error) {
	dbPres, err := s.queries.ListPresentationsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list presentations: %w", err)
	}

	out := make([]Presentation, len(dbPres))
	for i, p := range dbPres {
		out[i] = *dbPresToPresentation(p)
	}
	return out, nil
}

func (s *Service) Delete(ctx context.Context, presentationID, userID string) error {
	if _, err := s.owned(ctx, presentationID, userID); err != nil {
		return err
	}
	return s.queries.DeletePresentation(ctx, presentationID)
}

// LatestDocument returns the raw document JSON of the newest snapshot.
func (s *Service) LatestDocument(ctx context.Context, presentationID, userID string) (json.RawMessage, error) {
	if _, err := s.owned(ctx, presentationID, userID); err != nil {
		return nil, err
	}

	snap, err := s.queries.GetLatestSnapshot(ctx, presentationID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get snapshot: %w", err)
	}
	return snap.Document, nil
}

// LoadDocument unmarshals the newest snapshot without an ownership check;
// used by internal consumers (export, editor sessions) that check access
// themselves.
func (s *Service) LoadDocument(ctx context.Context, presentationID string) (*document.Presentation, error) {
	snap, err := s.queries.GetLatestSnapshot(ctx, presentationID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get snapshot: %w", err)
	}

	var doc document.Presentation
	if err := json.Unmarshal(snap.Document, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal document: %w", err)
	}
	return &doc, nil
}

// SaveDocument appends a new snapshot version.
func (s *Service) SaveDocument(ctx context.Context, presentationID string, doc *document.Presentation) error {
	docJSON, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	_, err = s.queries.CreateSnapshot(ctx, db.CreateSnapshotParams{
		ID:             typeid.NewSnapshotID(),
		PresentationID: presentationID,
		Document:       docJSON,
	})
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	return s.queries.TouchPresentation(ctx, presentationID)
}

// mutate loads the latest document, applies fn through the in-memory store
// and saves the result as a new snapshot version.
func (s *Service) mutate(ctx context.Context, presentationID, userID string, fn func(*store.Memory) error) error {
	if _, err := s.owned(ctx, presentationID, userID); err != nil {
		return err
	}
	doc, err := s.LoadDocument(ctx, presentationID)
	if err != nil {
		return err
	}
	mem := store.NewMemory(doc)
	if err := fn(mem); err != nil {
		return err
	}
	return s.SaveDocument(ctx, presentationID, mem.Presentation())
}

// AddSlide appends an empty slide and returns its id.
func (s *Service) AddSlide(ctx context.Context, presentationID, userID string) (string, error) {
	slideID := typeid.NewSlideID()
	err := s.mutate(ctx, presentationID, userID, func(mem *store.Memory) error {
		mem.AddSlide(document.Slide{
			ID:         slideID,
			Background: document.Background{Type: document.BackgroundSolid, Color: "#ffffff"},
		})
		return nil
	})
	return slideID, err
}

func (s *Service) DeleteSlide(ctx context.Context, presentationID, userID, slideID string) error {
	return s.mutate(ctx, presentationID, userID, func(mem *store.Memory) error {
		return mem.DeleteSlide(slideID)
	})
}

func (s *Service) MoveSlide(ctx context.Context, presentationID, userID, slideID string, to int) error {
	return s.mutate(ctx, presentationID, userID, func(mem *store.Memory) error {
		return mem.MoveSlide(slideID, to)
	})
}

// AddElement stores a new element; the id is assigned here.
func (s *Service) AddElement(ctx context.Context, presentationID, userID, slideID string, el document.Element) (string, error) {
	el.ID = typeid.NewElementID()
	if el.Opacity == 0 {
		el.Opacity = 1
	}
	err := s.mutate(ctx, presentationID, userID, func(mem *store.Memory) error {
		slide := mem.Presentation().SlideByID(slideID)
		if slide == nil {
			return store.ErrSlideNotFound
		}
		el.ZIndex = document.MaxZIndex(slide) + 1
		return mem.AddElement(slideID, el)
	})
	return el.ID, err
}

func (s *Service) UpdateElement(ctx context.Context, presentationID, userID, slideID, elementID string, changes document.ElementPatch) error {
	return s.mutate(ctx, presentationID, userID, func(mem *store.Memory) error {
		return mem.UpdateElement(slideID, elementID, changes)
	})
}

func (s *Service) DeleteElements(ctx context.Context, presentationID, userID, slideID string, ids []string) error {
	return s.mutate(ctx, presentationID, userID, func(mem *store.Memory) error {
		return mem.DeleteElements(slideID, ids)
	})
}

func (s *Service) ReorderElement(ctx context.Context, presentationID, userID, slideID, elementID string, newZ int) error {
	return s.mutate(ctx, presentationID, userID, func(mem *store.Memory) error {
		return mem.ReorderElement(slideID, elementID, newZ)
	})
}

func (s *Service) owned(ctx context.Context, presentationID, userID string) (db.Presentation, error) {
	dbPres, err := s.queries.GetPresentation(ctx, presentationID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return db.Presentation{}, ErrNotFound
		}
		return db.Presentation{}, fmt.Errorf("get presentation: %w", err)
	}
	if dbPres.OwnerID != userID {
		return db.Presentation{}, ErrForbidden
	}
	return dbPres, nil
}

func dbPresToPresentation(p db.Presentation) *Presentation {
	return &Presentation{
		ID:        p.ID,
		Title:     p.Title,
		OwnerID:   p.OwnerID,
		Width:     int(p.Width),
		Height:    int(p.Height),
		CreatedAt: p.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt: p.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
