package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/herobrain/site/internal/carousel"
	"github.com/herobrain/site/internal/testimonial"
)

var errViewClosed = errors.New("carousel view closed")

const carouselWriteWait = 10 * time.Second

// carouselMessage is what the htmx websocket extension sends when a control is clicked.
type carouselMessage struct {
	Action string    `json:"action"`
	Index  flexIndex `json:"index"`
}

// flexIndex accepts both 2 and "2", hx-vals sends either depending on how it's written.
type flexIndex int

func (i *flexIndex) UnmarshalJSON(b []byte) error {
	var n int
	if err := json.Unmarshal(b, &n); err == nil {
		*i = flexIndex(n)
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("index is neither a number nor a string: %s", b)
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("failed to parse index %q: %w", s, err)
	}
	*i = flexIndex(n)

	return nil
}

// Carousel mounts one carousel view for the lifetime of the websocket.
// The featured testimonials are picked once when the socket opens, the
// carousel rotates through them and every change is pushed as a fragment
// that replaces #carousel. When the testimonials can't be loaded the error
// state is pushed once and the socket is closed.
func (a *testimonialsHandler) Carousel(w http.ResponseWriter, r *http.Request) {
	conn, err := a.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// The upgrader has already answered the client.
		slog.Warn("failed to upgrade carousel websocket", "error", err)
		return
	}
	defer conn.Close()

	ts, err := a.service.Fetch(r.Context(), testimonial.FetchOptions{})
	if err != nil {
		slog.Error("failed to fetch testimonials for the carousel", "error", err)
		// A normal closure so the client shows the error instead of reconnecting.
		if err := a.closeWithError(conn); err != nil {
			slog.Warn("failed to send carousel error state", "error", err)
		}
		return
	}

	ctrl := carousel.New(
		testimonial.Featured(ts, a.carousel.Featured),
		carousel.WithClock(a.carousel.Clock),
		carousel.WithInterval(a.carousel.Interval),
	)

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error { return ctrl.Run(ctx) })
	g.Go(func() error { return readCarouselMessages(conn, ctrl) })
	g.Go(func() error { return a.pushCarousel(ctx, conn, ctrl) })
	g.Go(func() error {
		<-ctx.Done()
		// Unblocks the reader when the server shuts down.
		_ = conn.Close()
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errViewClosed) {
		slog.Error("carousel view stopped", "error", err)
	}
}

func readCarouselMessages(conn *websocket.Conn, ctrl *carousel.Controller) error {
	for {
		_, b, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Warn("carousel websocket closed unexpectedly", "error", err)
			}

			return errViewClosed
		}

		var msg carouselMessage
		if err := json.Unmarshal(b, &msg); err != nil {
			slog.Warn("ignoring malformed carousel message", "error", err)
			continue
		}

		switch msg.Action {
		case "next":
			ctrl.Advance()
		case "prev":
			ctrl.Retreat()
		case "jump":
			ctrl.JumpTo(int(msg.Index))
		default:
			slog.Warn("ignoring unknown carousel action", "action", msg.Action)
		}
	}
}

func (a *testimonialsHandler) closeWithError(conn *websocket.Conn) error {
	if err := a.writeCarousel(conn, CarouselBasic{Error: true}); err != nil {
		return err
	}

	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "testimonials unavailable")
	return conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(carouselWriteWait))
}

func (a *testimonialsHandler) writeCarousel(conn *websocket.Conn, data CarouselBasic) error {
	var buf bytes.Buffer
	if err := a.pp.Render(&buf, "testimonials/_carousel.html", map[string]any{"Data": data}); err != nil {
		return fmt.Errorf("failed to render carousel: %w", err)
	}

	if err := conn.SetWriteDeadline(time.Now().Add(carouselWriteWait)); err != nil {
		return errViewClosed
	}
	if err := conn.WriteMessage(websocket.TextMessage, buf.Bytes()); err != nil {
		return errViewClosed
	}

	return nil
}

func (a *testimonialsHandler) pushCarousel(ctx context.Context, conn *websocket.Conn, ctrl *carousel.Controller) error {
	for {
		if err := a.writeCarousel(conn, convertCarouselToHttpObject(ctrl.State())); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ctrl.Updates():
		}
	}
}
