// Package session is the WebSocket transport of the editor: one connection
// per editing session, streaming pointer/tool input in and element mutations
// and repaint notices out. All input for a session is handled on its read
// goroutine, so the document store sees exactly one mutator.
package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/coder/websocket"

	"github.com/deckforge/deckforge/backend-go/internal/document"
	"github.com/deckforge/deckforge/backend-go/internal/geometry"
	"github.com/deckforge/deckforge/backend-go/internal/interaction"
	"github.com/deckforge/deckforge/backend-go/internal/presentation"
	"github.com/deckforge/deckforge/backend-go/internal/store"
	"github.com/deckforge/deckforge/backend-go/internal/typeid"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
	maxMsgSize = 256 * 1024
	sendBuffer = 256
)

// Session owns one editing connection: the working copy of the document, its
// undo history and the interaction machine driving it.
type Session struct {
	ID             string
	PresentationID string
	UserID         string

	conn *websocket.Conn
	send chan []byte
	log  *slog.Logger

	presentations *presentation.Service

	mem     *store.Memory
	hist    *store.History
	state   *interaction.EditorState
	machine *interaction.Machine
	slideID string
}

// New loads the presentation's latest snapshot into a working copy and wires
// the interaction machine over it.
func New(ctx context.Context, conn *websocket.Conn, presentations *presentation.Service, presentationID, userID string) (*Session, error) {
	doc, err := presentations.LoadDocument(ctx, presentationID)
	if err != nil {
		return nil, err
	}

	s := &Session{
		ID:             typeid.NewSessionID(),
		PresentationID: presentationID,
		UserID:         userID,
		conn:           conn,
		send:           make(chan []byte, sendBuffer),
		presentations:  presentations,
		mem:            store.NewMemory(doc),
	}
	s.log = slog.With("session", s.ID, "presentation", presentationID)
	s.hist = store.NewHistory(s.mem, 0)
	s.state = interaction.NewEditorState(geometry.Size{Width: document.DefaultWidth, Height: document.DefaultHeight})

	if len(doc.Slides) > 0 {
		s.slideID = doc.Slides[0].ID
	}
	s.machine = interaction.New(&emittingStore{sess: s}, s.hist, s.state, s.log)
	return s, nil
}

// Run sends the welcome message and pumps the connection until it closes.
// The document is saved on the way out so a dropped connection loses at most
// the final in-flight gesture.
func (s *Session) Run(ctx context.Context) {
	s.sendMessage(TypeWelcome, WelcomePayload{
		SessionID: s.ID,
		Document:  s.mem.Presentation(),
		SlideID:   s.slideID,
	})

	go s.writePump(ctx)
	s.readPump(ctx)

	saveCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.presentations.SaveDocument(saveCtx, s.PresentationID, s.mem.Presentation()); err != nil {
		s.log.Error("save on disconnect failed", "error", err)
	}
}

func (s *Session) readPump(ctx context.Context) {
	defer s.conn.Close(websocket.StatusNormalClosure, "")

	s.conn.SetReadLimit(maxMsgSize)

	for {
		_, data, err := s.conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure ||
				websocket.CloseStatus(err) == websocket.StatusGoingAway {
				return
			}
			s.log.Debug("read error", "error", err)
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			s.log.Warn("invalid message", "error", err)
			continue
		}
		s.handleMessage(ctx, &msg)
	}
}

func (s *Session) writePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		select {
		case message, ok := <-s.send:
			if !ok {
				return
			}
			writeCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := s.conn.Write(writeCtx, websocket.MessageText, message)
			cancel()
			if err != nil {
				s.log.Debug("write error", "error", err)
				return
			}

		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := s.conn.Ping(pingCtx)
			cancel()
			if err != nil {
				return
			}

		case <-ctx.Done():
			return
		}
	}
}

func (s *Session) handleMessage(ctx context.Context, msg *Message) {
	switch msg.Type {
	case TypeToolSet:
		var p ToolSetPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			s.sendError("invalid tool.set payload")
			return
		}
		tool, err := interaction.ParseTool(p.Tool)
		if err != nil {
			s.sendError(err.Error())
			return
		}
		s.machine.SetTool(tool)
		if p.ShapeKind != "" {
			s.machine.SetDrawKind(document.ShapeKind(p.ShapeKind))
		}
		s.sendSelection()

	case TypePointerDown, TypePointerMove, TypePointerUp, TypePointerLeave:
		var p PointerPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			s.sendError("invalid pointer payload")
			return
		}
		s.machine.HandlePointerEvent(interaction.PointerEvent{
			Kind:  pointerKind(msg.Type),
			X:     p.X,
			Y:     p.Y,
			Shift: p.Shift,
			Ctrl:  p.Ctrl,
		})
		s.sendSelection()

	case TypeViewportUpdate:
		var p ViewportPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			s.sendError("invalid viewport payload")
			return
		}
		s.state.Viewport = geometry.Viewport{
			Zoom: geometry.ClampZoom(p.Zoom),
			PanX: p.PanX,
			PanY: p.PanY,
		}

	case TypeCanvasResize:
		var p CanvasPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			s.sendError("invalid canvas payload")
			return
		}
		if p.Width > 0 && p.Height > 0 {
			s.state.Canvas = geometry.Size{Width: p.Width, Height: p.Height}
		}

	case TypeSlideSet:
		var p SlideSetPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			s.sendError("invalid slide.set payload")
			return
		}
		if s.mem.Presentation().SlideByID(p.SlideID) == nil {
			s.sendError("unknown slide")
			return
		}
		s.slideID = p.SlideID
		s.state.ClearSelection()
		s.sendSelection()

	case TypeUndo:
		if _, ok := s.hist.Undo(); ok {
			s.syncDocument()
		}

	case TypeRedo:
		if _, ok := s.hist.Redo(); ok {
			s.syncDocument()
		}

	case TypeSave:
		if err := s.presentations.SaveDocument(ctx, s.PresentationID, s.mem.Presentation()); err != nil {
			s.log.Error("save failed", "error", err)
			s.sendError("save failed")
		}

	default:
		s.log.Warn("unknown message type", "type", msg.Type)
	}
}

func pointerKind(msgType string) interaction.PointerKind {
	switch msgType {
	case TypePointerMove:
		return interaction.PointerMove
	case TypePointerUp:
		return interaction.PointerUp
	case TypePointerLeave:
		return interaction.PointerLeave
	default:
		return interaction.PointerDown
	}
}

// syncDocument pushes the full working copy after undo/redo; selection may
// reference elements that no longer exist, so it is cleared too.
func (s *Session) syncDocument() {
	s.state.ClearSelection()
	s.sendMessage(TypeDocSync, DocSyncPayload{Document: s.mem.Presentation()})
	s.invalidate()
}

func (s *Session) sendSelection() {
	s.sendMessage(TypeSelectionUpdate, SelectionPayload{
		IDs:          append([]string(nil), s.state.Selection...),
		SelectionBox: s.state.SelectionBox,
		DrawDraft:    s.state.DrawDraft,
	})
}

func (s *Session) invalidate() {
	s.sendMessage(TypeFrameInvalidate, nil)
}

func (s *Session) sendError(text string) {
	s.sendMessage(TypeError, ErrorPayload{Error: text})
}

func (s *Session) sendMessage(msgType string, payload any) {
	msg := Message{Type: msgType}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			s.log.Error("marshal payload", "error", err, "type", msgType)
			return
		}
		msg.Payload = data
	}

	data, err := json.Marshal(msg)
	if err != nil {
		s.log.Error("marshal message", "error", err)
		return
	}

	select {
	case s.send <- data:
	default:
		s.log.Warn("send buffer full, dropping message", "type", msgType)
	}
}

// emittingStore forwards machine mutations to the working copy and mirrors
// each successful one to the client, followed by a repaint notice.
type emittingStore struct {
	sess *Session
}

func (e *emittingStore) Slide() *document.Slide {
	return e.sess.mem.Presentation().SlideByID(e.sess.slideID)
}

func (e *emittingStore) UpdateElement(id string, changes document.ElementPatch) error {
	if err := e.sess.mem.UpdateElement(e.sess.slideID, id, changes); err != nil {
		return err
	}
	e.sess.sendMessage(TypeElementPatch, ElementPatchPayload{
		SlideID: e.sess.slideID,
		Updates: []document.ElementUpdate{{ID: id, Changes: changes}},
	})
	e.sess.invalidate()
	return nil
}

func (e *emittingStore) UpdateElements(updates []document.ElementUpdate) error {
	if err := e.sess.mem.UpdateElements(e.sess.slideID, updates); err != nil {
		return err
	}
	e.sess.sendMessage(TypeElementPatch, ElementPatchPayload{
		SlideID: e.sess.slideID,
		Updates: updates,
	})
	e.sess.invalidate()
	return nil
}

func (e *emittingStore) AddElement(el document.Element) error {
	if err := e.sess.mem.AddElement(e.sess.slideID, el); err != nil {
		return err
	}
	e.sess.sendMessage(TypeElementAdd, ElementAddPayload{
		SlideID: e.sess.slideID,
		Element: el,
	})
	e.sess.invalidate()
	return nil
}

func (e *emittingStore) DeleteElements(ids []string) error {
	if err := e.sess.mem.DeleteElements(e.sess.slideID, ids); err != nil {
		return err
	}
	e.sess.sendMessage(TypeElementDelete, ElementDeletePayload{
		SlideID: e.sess.slideID,
		IDs:     ids,
	})
	e.sess.invalidate()
	return nil
}
