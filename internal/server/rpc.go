package server

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/copyleftdev/noviz/internal/errors"
	"github.com/copyleftdev/noviz/internal/optimization"
)

// handleJSONRPC handles JSON-RPC 2.0 requests
func (s *Server) handleJSONRPC(w http.ResponseWriter, r *http.Request) {
	var request struct {
		JSONRPC string            `json:"jsonrpc"`
		ID      interface{}       `json:"id"`
		Method  string            `json:"method"`
		Params  []json.RawMessage `json:"params,omitempty"`
	}

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		s.respondWithError(w, apperrors.CodeParseError, "Parse error", nil)
		return
	}

	// Validate JSON-RPC 2.0 request
	if request.JSONRPC != "2.0" {
		s.respondWithError(w, apperrors.CodeInvalidRequest, "Invalid Request", nil)
		return
	}

	// Route to appropriate handler
	var result interface{}
	var err error

	switch request.Method {
	case "run.calculate":
		result, err = s.rpcCalculate(request.Params)
	case "run.seek":
		result, err = s.rpcSeek(request.Params)
	case "run.discard":
		err = s.rpcDiscard(request.Params)
		result = map[string]interface{}{"discarded": err == nil}
	default:
		s.respondWithError(w, apperrors.CodeMethodNotFound, "Method not found", request.ID)
		return
	}

	if err != nil {
		s.respondWithError(w, apperrors.RPCCode(err), apperrors.PublicMessage(err), request.ID)
		return
	}

	// Send successful response
	response := map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      request.ID,
		"result":  result,
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(response)
}

// rpcCalculate handles run.calculate. The single parameter has the shape of
// the POST /api/v1/runs body; the result is the stored run.
func (s *Server) rpcCalculate(params []json.RawMessage) (interface{}, error) {
	var body calculateRequest
	if err := decodeParam(params, &body); err != nil {
		return nil, err
	}
	state, err := s.calculate(body)
	if err != nil {
		return nil, err
	}
	return s.view(state), nil
}

// rpcSeek handles run.seek: {"run_id": "...", "action": "next"}.
func (s *Server) rpcSeek(params []json.RawMessage) (interface{}, error) {
	var body seekRequest
	if err := decodeParam(params, &body); err != nil {
		return nil, err
	}
	state, err := s.lookup(body.RunID)
	if err != nil {
		return nil, err
	}
	return s.seek(state, body)
}

// rpcDiscard handles run.discard: {"run_id": "..."}.
func (s *Server) rpcDiscard(params []json.RawMessage) error {
	var body seekRequest
	if err := decodeParam(params, &body); err != nil {
		return err
	}
	return s.discard(body.RunID)
}

// decodeParam unmarshals the first positional parameter into v.
func decodeParam(params []json.RawMessage, v interface{}) error {
	if len(params) == 0 {
		return optimization.ConfigurationError("missing parameters")
	}
	if err := json.Unmarshal(params[0], v); err != nil {
		return optimization.ConfigurationError("invalid parameters: %v", err)
	}
	return nil
}

// respondWithError sends a JSON-RPC 2.0 error response
func (s *Server) respondWithError(w http.ResponseWriter, code int, message string, id interface{}) {
	s.logger.Warn("RPC error", map[string]interface{}{
		"code":    code,
		"message": message,
	})

	response := map[string]interface{}{
		"jsonrpc": "2.0",
		"error": map[string]interface{}{
			"code":    code,
			"message": message,
		},
		"id": id,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(response)
}
