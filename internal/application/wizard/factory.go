package wizard

import (
	"context"

	"github.com/garyjia/arziki-reports/internal/domain/entity"
	domainwiz "github.com/garyjia/arziki-reports/internal/domain/wizard"
)

// buildStateMachine wires the report wizard transition table. Guards read the
// wizard's draft and run with the wizard lock already held.
func buildStateMachine(w *Wizard, initial domainwiz.Step) domainwiz.StateMachine {
	builder := domainwiz.NewBuilder()

	builder.Configure(domainwiz.StepBusiness).
		PermitIf(domainwiz.TriggerNext, domainwiz.StepProduct, func(ctx context.Context) error {
			return entity.ValidateBusiness(w.draft.Business)
		})

	builder.Configure(domainwiz.StepProduct).
		PermitIf(domainwiz.TriggerNext, domainwiz.StepStock, w.productsGuard).
		PermitIf(domainwiz.TriggerSkip, domainwiz.StepReview, w.productsGuard).
		Permit(domainwiz.TriggerBack, domainwiz.StepBusiness)

	builder.Configure(domainwiz.StepStock).
		PermitIf(domainwiz.TriggerNext, domainwiz.StepSupplier, func(ctx context.Context) error {
			return entity.ValidateStockEntries(w.draft.StockEntries)
		}).
		Permit(domainwiz.TriggerBack, domainwiz.StepProduct)

	builder.Configure(domainwiz.StepSupplier).
		PermitIf(domainwiz.TriggerNext, domainwiz.StepReview, func(ctx context.Context) error {
			return entity.ValidateSupplier(w.draft.Supplier)
		}).
		Permit(domainwiz.TriggerBack, domainwiz.StepStock)

	builder.Configure(domainwiz.StepReview).
		PermitIf(domainwiz.TriggerSubmit, domainwiz.StepProcessing, func(ctx context.Context) error {
			return entity.ValidateAttachments(w.draft.Attachments)
		}).
		Permit(domainwiz.TriggerBack, domainwiz.StepSupplier)

	// Processing only settles; it accepts nothing from the user
	builder.Configure(domainwiz.StepProcessing).
		Permit(domainwiz.TriggerSucceed, domainwiz.StepSuccess).
		Permit(domainwiz.TriggerFail, domainwiz.StepReview)

	builder.Configure(domainwiz.StepSuccess).
		Permit(domainwiz.TriggerRestart, domainwiz.StepBusiness)

	return builder.Build(initial)
}

func (w *Wizard) productsGuard(ctx context.Context) error {
	return entity.ValidateProducts(w.draft.Products)
}
