package guards

import (
	"loadflow/internal/core/domain/model/load"
	"loadflow/internal/core/ports"
)

// BackingServices groups the remote evaluators by the service that answers
// them.
type BackingServices struct {
	Compliance  ports.GuardEvaluator
	Positioning ports.GuardEvaluator
	Billing     ports.GuardEvaluator
}

// NewDispatchTable builds the check-to-evaluator table the engine resolves
// guards through. Built once at startup; a catalog guard without an entry
// here fails closed at attempt time.
func NewDispatchTable(services BackingServices) map[load.GuardCheck]ports.GuardEvaluator {
	documents := NewDocumentEvaluator()
	exceptions := NewExceptionEvaluator()

	return map[load.GuardCheck]ports.GuardEvaluator{
		load.CheckBOLSigned:    documents,
		load.CheckPODComplete:  documents,
		load.CheckSealRecorded: documents,

		load.CheckExceptionCleared: exceptions,

		load.CheckHOSAvailable:           services.Compliance,
		load.CheckCarrierAuthorityActive: services.Compliance,

		load.CheckWithinPickupGeofence:   services.Positioning,
		load.CheckWithinDeliveryGeofence: services.Positioning,

		load.CheckRateConfirmed:  services.Billing,
		load.CheckPaymentCleared: services.Billing,
		load.CheckEscrowFunded:   services.Billing,
	}
}
