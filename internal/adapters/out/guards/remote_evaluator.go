package guards

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"loadflow/internal/core/ports"
)

// RemoteEvaluator answers guards whose truth lives in another service:
// hours-of-service and carrier authority in compliance, geofence checks in
// positioning, payment and escrow state in billing. One evaluator instance
// points at one base URL; the check identifier selects the endpoint.
//
// The engine's per-guard timeout flows in through ctx, so an unreachable
// service fails the guard instead of hanging the transition.
type RemoteEvaluator struct {
	client  *http.Client
	baseURL string
}

// NewRemoteEvaluator creates an evaluator calling the service at baseURL.
func NewRemoteEvaluator(baseURL string, client *http.Client) *RemoteEvaluator {
	if client == nil {
		client = http.DefaultClient
	}
	return &RemoteEvaluator{client: client, baseURL: baseURL}
}

type checkRequest struct {
	Check        string            `json:"check"`
	LoadID       string            `json:"load_id"`
	ActorID      string            `json:"actor_id"`
	TransitionID string            `json:"transition_id"`
	Event        map[string]string `json:"event,omitempty"`
}

type checkResponse struct {
	Passed  bool   `json:"passed"`
	Message string `json:"message"`
}

// Evaluate POSTs the check to the backing service and relays its verdict.
func (e *RemoteEvaluator) Evaluate(ctx context.Context, req ports.GuardRequest) (ports.GuardResult, error) {
	body, err := json.Marshal(checkRequest{
		Check:        string(req.Guard.Check),
		LoadID:       req.Load.ID().String(),
		ActorID:      req.Actor.ID.String(),
		TransitionID: req.TransitionID,
		Event:        req.Event,
	})
	if err != nil {
		return ports.GuardResult{}, err
	}

	url := fmt.Sprintf("%s/checks/%s", e.baseURL, req.Guard.Check)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return ports.GuardResult{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(httpReq)
	if err != nil {
		return ports.GuardResult{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ports.GuardResult{}, fmt.Errorf("check %s: service returned %d", req.Guard.Check, resp.StatusCode)
	}

	var verdict checkResponse
	if err := json.NewDecoder(resp.Body).Decode(&verdict); err != nil {
		return ports.GuardResult{}, err
	}
	return ports.GuardResult{Passed: verdict.Passed, Message: verdict.Message}, nil
}
