package web

import "go-chi-calculator/internal/calculator"

// OperandsRequest is the JSON body for PUT .../operands and the optional body
// of the operation endpoints. Numbers travel as the text the user typed; an
// omitted field keeps the current operand.
type OperandsRequest struct {
	A *string `json:"a"`
	B *string `json:"b"`
}

// HistoryEntry is one record of a view's history.
type HistoryEntry struct {
	Expression string `json:"expression"`
	Result     string `json:"result"`
}

// ViewResponse is the JSON state of a mounted view. Results are strings
// because "NaN" and "Infinity" are not valid JSON numbers.
type ViewResponse struct {
	ID       string         `json:"id"`
	A        string         `json:"a"`
	B        string         `json:"b"`
	Result   string         `json:"result"`
	History  []HistoryEntry `json:"history"`
	DarkMode bool           `json:"dark_mode"`
}

// BatchStep is one calculation in a batch: set both operands, then apply Op.
type BatchStep struct {
	A  string `json:"a"`
	B  string `json:"b"`
	Op string `json:"op"` // "add", "subtract", "multiply", "divide"
}

// BatchRequest is the JSON body for POST .../batch.
type BatchRequest struct {
	Steps []BatchStep `json:"steps"`
}

// BatchResponse lists the record produced by each step and the final state.
type BatchResponse struct {
	Steps []HistoryEntry `json:"steps"`
	View  ViewResponse   `json:"view"`
}

func newViewResponse(id string, s calculator.Snapshot) ViewResponse {
	history := make([]HistoryEntry, 0, len(s.History))
	for _, rec := range s.History {
		history = append(history, newHistoryEntry(rec))
	}

	return ViewResponse{
		ID:       id,
		A:        s.OperandA,
		B:        s.OperandB,
		Result:   s.Result,
		History:  history,
		DarkMode: s.DarkMode,
	}
}

func newHistoryEntry(rec calculator.Record) HistoryEntry {
	return HistoryEntry{Expression: rec.Expression, Result: rec.Result}
}
