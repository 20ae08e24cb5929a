package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"go-chi-calculator/internal/calculator"
	"go-chi-calculator/internal/handlers"
	"go-chi-calculator/internal/observability"
	"go-chi-calculator/internal/viewstore"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// tracer is the web front end's dedicated OpenTelemetry tracer.
var tracer = otel.Tracer("calculator.web")

// errInvalidInput marks client mistakes (malformed JSON, bad path values).
var errInvalidInput = errors.New("invalid input")

// maxBatchSteps bounds the steps of one batch request.
const maxBatchSteps = 100

// Handler serves the calculator views over HTTP, both as JSON and as HTML.
type Handler struct {
	views    *viewstore.Store
	darkMode bool
}

// NewHandler returns a handler mounting new views with the given theme.
func NewHandler(views *viewstore.Store, darkMode bool) *Handler {
	return &Handler{views: views, darkMode: darkMode}
}

// ---------------------------------------------------------------------------
// Lifecycle
// ---------------------------------------------------------------------------

// Mount handles POST /calculator/views
func (h *Handler) Mount(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "calculator.view.mount",
		trace.WithAttributes(
			attribute.Bool("calculator.view.dark_mode", h.darkMode),
			attribute.String("request.id", observability.RequestIDFromContext(r.Context())),
		),
	)
	defer span.End()

	id := h.mount(ctx)
	span.SetAttributes(attribute.String("calculator.view.id", id))

	var resp ViewResponse
	err := h.views.Do(id, func(v *calculator.View) error {
		resp = newViewResponse(id, v.Snapshot())
		return nil
	})
	if err != nil {
		h.fail(ctx, span, w, "mount", err)
		return
	}

	span.SetStatus(codes.Ok, "")

	w.Header().Set("Location", "/calculator/views/"+id)
	handlers.WriteJSON(w, http.StatusCreated, resp)
}

// Unmount handles DELETE /calculator/views/{id}
func (h *Handler) Unmount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	ctx, span := tracer.Start(ctx, "calculator.view.unmount",
		trace.WithAttributes(attribute.String("calculator.view.id", id)),
	)
	defer span.End()

	if err := h.views.Unmount(id); err != nil {
		h.fail(ctx, span, w, "unmount", err)
		return
	}

	observability.LoggerWithTrace(ctx).Info("view unmounted",
		zap.String("view_id", id),
		zap.Int("mounted", h.views.Len()),
		zap.String("request_id", observability.RequestIDFromContext(ctx)),
	)

	span.SetStatus(codes.Ok, "")
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) mount(ctx context.Context) string {
	id := h.views.Mount(h.darkMode)
	mountCounter.Add(ctx, 1)

	observability.LoggerWithTrace(ctx).Info("view mounted",
		zap.String("view_id", id),
		zap.Bool("dark_mode", h.darkMode),
		zap.Int("mounted", h.views.Len()),
		zap.String("request_id", observability.RequestIDFromContext(ctx)),
	)

	return id
}

// ---------------------------------------------------------------------------
// View actions
// ---------------------------------------------------------------------------

// Get handles GET /calculator/views/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	h.handleViewAction(w, r, "get", func(context.Context, *calculator.View) error {
		return nil
	})
}

// SetOperands handles PUT /calculator/views/{id}/operands
func (h *Handler) SetOperands(w http.ResponseWriter, r *http.Request) {
	req, err := decodeOperands(r.Body)

	h.handleViewAction(w, r, "operands", func(_ context.Context, v *calculator.View) error {
		if err != nil {
			return err
		}
		return applyOperands(v, req)
	})
}

// Calculate handles POST /calculator/views/{id}/{op}. The body may carry new
// operands; an empty body calculates with the current ones.
func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "op")
	req, err := decodeOperands(r.Body)

	h.handleViewAction(w, r, name, func(ctx context.Context, v *calculator.View) error {
		op, opErr := calculator.ParseOperation(name)
		if opErr != nil {
			return opErr
		}
		if err != nil {
			return err
		}
		if err := applyOperands(v, req); err != nil {
			return err
		}
		v.Perform(ctx, op)
		return nil
	})
}

// Clear handles POST /calculator/views/{id}/clear
func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	h.handleViewAction(w, r, "clear", func(_ context.Context, v *calculator.View) error {
		v.Clear()
		return nil
	})
}

// ToggleTheme handles POST /calculator/views/{id}/theme
func (h *Handler) ToggleTheme(w http.ResponseWriter, r *http.Request) {
	h.handleViewAction(w, r, "theme", func(_ context.Context, v *calculator.View) error {
		v.ToggleTheme()
		return nil
	})
}

// SelectHistory handles POST /calculator/views/{id}/history/{index}
func (h *Handler) SelectHistory(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "index")

	h.handleViewAction(w, r, "history", func(_ context.Context, v *calculator.View) error {
		i, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%w: history index %q", errInvalidInput, raw)
		}
		_, err = v.SelectHistory(i)
		return err
	})
}

// Key handles POST /calculator/views/{id}/keys/{key}. Unbound keys are
// accepted and ignored, like a key press nobody listens to.
func (h *Handler) Key(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	h.handleViewAction(w, r, "key", func(ctx context.Context, v *calculator.View) error {
		handled := v.HandleKey(ctx, key)
		trace.SpanFromContext(ctx).SetAttributes(
			attribute.String("calculator.key", key),
			attribute.Bool("calculator.key.handled", handled),
		)
		return nil
	})
}

// handleViewAction is the shared implementation of every JSON view endpoint:
// a span per request, exclusive access to the view, error mapping and the
// JSON state response.
func (h *Handler) handleViewAction(w http.ResponseWriter, r *http.Request, opName string, act func(context.Context, *calculator.View) error) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	ctx, span := tracer.Start(ctx, fmt.Sprintf("calculator.view.%s", opName),
		trace.WithAttributes(
			attribute.String("calculator.view.id", id),
			attribute.String("request.id", observability.RequestIDFromContext(ctx)),
		),
	)
	defer span.End()

	var resp ViewResponse
	err := h.views.Do(id, func(v *calculator.View) error {
		if err := act(ctx, v); err != nil {
			return err
		}
		resp = newViewResponse(id, v.Snapshot())
		return nil
	})
	if err != nil {
		h.fail(ctx, span, w, opName, err)
		return
	}

	span.SetAttributes(
		attribute.String("calculator.result", resp.Result),
		attribute.Int("calculator.history.length", len(resp.History)),
	)
	span.SetStatus(codes.Ok, "")

	handlers.WriteJSON(w, http.StatusOK, resp)
}

// ---------------------------------------------------------------------------
// Batch
// ---------------------------------------------------------------------------

// Batch handles POST /calculator/views/{id}/batch. It applies a sequence of
// calculations to one view, creating a child span for every step. Each step
// lands in the view's history exactly as if it had been entered by hand.
func (h *Handler) Batch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)
	id := chi.URLParam(r, "id")

	ctx, span := tracer.Start(ctx, "calculator.view.batch",
		trace.WithAttributes(
			attribute.String("calculator.view.id", id),
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()

	var req BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.fail(ctx, span, w, "batch", fmt.Errorf("%w: %w", errInvalidInput, err))
		return
	}
	if len(req.Steps) == 0 {
		h.fail(ctx, span, w, "batch", fmt.Errorf("%w: steps array is empty", errInvalidInput))
		return
	}
	if len(req.Steps) > maxBatchSteps {
		h.fail(ctx, span, w, "batch", fmt.Errorf("%w: %d steps, limit %d", errInvalidInput, len(req.Steps), maxBatchSteps))
		return
	}

	// Validate every step up front so a bad step leaves the view untouched.
	ops := make([]calculator.Operation, len(req.Steps))
	for i, step := range req.Steps {
		op, err := calculator.ParseOperation(step.Op)
		if err == nil {
			err = calculator.CheckOperands(step.A, step.B)
		}
		if err != nil {
			h.fail(ctx, span, w, "batch", fmt.Errorf("step %d: %w", i, err))
			return
		}
		ops[i] = op
	}

	span.SetAttributes(attribute.Int("batch.steps_count", len(req.Steps)))

	resp := BatchResponse{Steps: make([]HistoryEntry, 0, len(req.Steps))}
	err := h.views.Do(id, func(v *calculator.View) error {
		for i, step := range req.Steps {
			stepCtx, stepSpan := tracer.Start(ctx, fmt.Sprintf("calculator.view.batch.step.%d.%s", i, ops[i]),
				trace.WithAttributes(
					attribute.Int("batch.step.index", i),
					attribute.String("batch.step.operation", ops[i].String()),
				),
			)

			v.SetOperands(step.A, step.B)
			rec := v.Perform(stepCtx, ops[i])

			stepSpan.SetAttributes(attribute.String("batch.step.result", rec.Result))
			stepSpan.SetStatus(codes.Ok, "")
			stepSpan.End()

			resp.Steps = append(resp.Steps, newHistoryEntry(rec))
		}
		resp.View = newViewResponse(id, v.Snapshot())
		return nil
	})
	if err != nil {
		h.fail(ctx, span, w, "batch", err)
		return
	}

	span.AddEvent("batch.complete", trace.WithAttributes(
		attribute.String("final_result", resp.View.Result),
		attribute.Int("total_steps", len(resp.Steps)),
	))
	span.SetStatus(codes.Ok, "")

	logger.Info("batch calculation completed",
		zap.String("view_id", id),
		zap.Int("steps", len(resp.Steps)),
		zap.String("result", resp.View.Result),
		zap.String("request_id", requestID),
	)

	handlers.WriteJSON(w, http.StatusOK, resp)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// fail maps err to an HTTP status and records it.
func (h *Handler) fail(ctx context.Context, span trace.Span, w http.ResponseWriter, opName string, err error) {
	status, msg := http.StatusInternalServerError, "internal error"

	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		status, msg = http.StatusRequestEntityTooLarge, "request body too large"
	case errors.Is(err, viewstore.ErrViewNotFound):
		status, msg = http.StatusNotFound, "view not found"
	case errors.Is(err, calculator.ErrUnknownOperation):
		status, msg = http.StatusBadRequest, "unknown operation"
	case errors.Is(err, calculator.ErrHistoryIndex):
		status, msg = http.StatusBadRequest, "history index out of range"
	case errors.Is(err, calculator.ErrOperandTooLong):
		status, msg = http.StatusBadRequest, "operand too long"
	case errors.Is(err, errInvalidInput):
		status, msg = http.StatusBadRequest, "invalid request body"
	}

	observability.RecordError(ctx, span, observability.LoggerWithTrace(ctx), errorCounter, opName, msg, err, status, w)
}

// decodeOperands reads an optional OperandsRequest. An empty body is not an
// error.
func decodeOperands(body io.Reader) (OperandsRequest, error) {
	var req OperandsRequest
	if body == nil {
		return req, nil
	}

	err := json.NewDecoder(body).Decode(&req)
	if errors.Is(err, io.EOF) {
		return req, nil
	}
	if err != nil {
		return req, fmt.Errorf("%w: %w", errInvalidInput, err)
	}
	return req, nil
}

func applyOperands(v *calculator.View, req OperandsRequest) error {
	for _, s := range []*string{req.A, req.B} {
		if s == nil {
			continue
		}
		if err := calculator.CheckOperands(*s); err != nil {
			return err
		}
	}

	if req.A != nil {
		v.SetOperandA(*req.A)
	}
	if req.B != nil {
		v.SetOperandB(*req.B)
	}
	return nil
}
