package httpadapter

import (
	"context"
	"log/slog"

	"repogrant/contexts/access-grant/grant-service/application"
	httptransport "repogrant/contexts/access-grant/grant-service/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

// ReconcileHandler maps the transport request into the application pipeline
// and the result back into the response DTO. modify is true for POST.
func (h Handler) ReconcileHandler(ctx context.Context, req httptransport.GrantRequest, modify bool) (httptransport.GrantResponse, error) {
	result, err := h.Service.Reconcile(ctx, application.RawRequest{
		PurchaseID:     req.PurchaseID,
		Principal:      req.Principal,
		ChallengeToken: req.ChallengeToken,
		Modify:         modify,
	})
	if err != nil {
		return httptransport.GrantResponse{}, err
	}
	return httptransport.GrantResponse{
		Status:     string(result.Outcome),
		Message:    outcomeMessage(result),
		PurchaseID: result.PurchaseID,
		Principal:  result.Principal,
		Resource:   result.ResourceID,
		Mutated:    result.Mutated,
	}, nil
}

func outcomeMessage(result application.Result) string {
	switch result.Outcome {
	case application.OutcomePreviewGrant:
		return "access will be granted if the request is sent with POST"
	case application.OutcomePreviewOverride:
		return "existing grant will be overridden if the request is sent with POST"
	case application.OutcomePreviewRevoke:
		return "existing grant will be revoked if the request is sent with POST"
	case application.OutcomeAlreadyGranted:
		return "principal already has access to the repository"
	case application.OutcomeGranted:
		return "access granted; check the repository invitation"
	case application.OutcomeRegranted:
		return "grant reassigned to the new principal"
	case application.OutcomeRevoked:
		return "grant revoked and repository access removed"
	case application.OutcomeNothingToRevoke:
		return "no grant exists for this purchase"
	default:
		return string(result.Outcome)
	}
}
