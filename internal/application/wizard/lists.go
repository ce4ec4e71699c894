package wizard

import (
	"fmt"

	"github.com/garyjia/arziki-reports/internal/domain/entity"
	domainwiz "github.com/garyjia/arziki-reports/internal/domain/wizard"
)

// AppendProduct adds a blank product entry at the end and returns its index
func (w *Wizard) AppendProduct() (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.editable(domainwiz.StepProduct); err != nil {
		return 0, err
	}
	w.draft.Products = append(w.draft.Products, entity.ProductEntry{})
	return len(w.draft.Products) - 1, nil
}

// RemoveProduct deletes the entry at index. Removing the only remaining
// entry is ignored and reports false.
func (w *Wizard) RemoveProduct(index int) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.editable(domainwiz.StepProduct); err != nil {
		return false, err
	}
	if err := checkIndex(index, len(w.draft.Products)); err != nil {
		return false, err
	}
	if len(w.draft.Products) <= 1 {
		return false, nil
	}
	w.draft.Products = removeAt(w.draft.Products, index)
	return true, nil
}

// UpdateProduct replaces one field of one product entry
func (w *Wizard) UpdateProduct(index int, field, value string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.editable(domainwiz.StepProduct); err != nil {
		return err
	}
	if err := checkIndex(index, len(w.draft.Products)); err != nil {
		return err
	}
	return w.draft.Products[index].Set(field, value)
}

// AppendStockEntry adds a blank stock entry at the end and returns its index
func (w *Wizard) AppendStockEntry() (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.editable(domainwiz.StepStock); err != nil {
		return 0, err
	}
	w.draft.StockEntries = append(w.draft.StockEntries, entity.StockEntry{})
	return len(w.draft.StockEntries) - 1, nil
}

// RemoveStockEntry deletes the entry at index. Removing the only remaining
// entry is ignored and reports false.
func (w *Wizard) RemoveStockEntry(index int) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.editable(domainwiz.StepStock); err != nil {
		return false, err
	}
	if err := checkIndex(index, len(w.draft.StockEntries)); err != nil {
		return false, err
	}
	if len(w.draft.StockEntries) <= 1 {
		return false, nil
	}
	w.draft.StockEntries = removeAt(w.draft.StockEntries, index)
	return true, nil
}

// UpdateStockEntry replaces one field of one stock entry
func (w *Wizard) UpdateStockEntry(index int, field, value string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.editable(domainwiz.StepStock); err != nil {
		return err
	}
	if err := checkIndex(index, len(w.draft.StockEntries)); err != nil {
		return err
	}
	return w.draft.StockEntries[index].Set(field, value)
}

// AddAttachment records an uploaded file handle on the draft
func (w *Wizard) AddAttachment(att entity.Attachment) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.editable(domainwiz.StepReview); err != nil {
		return err
	}
	w.draft.Attachments = append(w.draft.Attachments, att)
	return nil
}

// RemoveAttachment drops the handle with the given id and returns it so the
// caller can release the stored file
func (w *Wizard) RemoveAttachment(id string) (entity.Attachment, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.editable(domainwiz.StepReview); err != nil {
		return entity.Attachment{}, err
	}
	for i, att := range w.draft.Attachments {
		if att.ID == id {
			w.draft.Attachments = removeAt(w.draft.Attachments, i)
			return att, nil
		}
	}
	return entity.Attachment{}, fmt.Errorf("%w: %s", ErrAttachmentNotFound, id)
}

func checkIndex(index, length int) error {
	if index < 0 || index >= length {
		return fmt.Errorf("%w: %d (entries: %d)", ErrIndexOutOfRange, index, length)
	}
	return nil
}

// removeAt returns a new slice without element i; the input is not modified
func removeAt[T any](items []T, i int) []T {
	out := make([]T, 0, len(items)-1)
	out = append(out, items[:i]...)
	return append(out, items[i+1:]...)
}
