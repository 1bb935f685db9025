package command

import (
	"fmt"

	"github.com/medtrack/pharmacy-pos/internal/medicine/domain"
)

// DeleteMedicineCommand represents the command to delete a medicine record
type DeleteMedicineCommand struct {
	ID uint
}

// DeleteMedicineHandler handles delete medicine command
type DeleteMedicineHandler struct {
	repo domain.MedicineRepository
}

// NewDeleteMedicineHandler creates a new delete medicine handler
func NewDeleteMedicineHandler(repo domain.MedicineRepository) *DeleteMedicineHandler {
	return &DeleteMedicineHandler{repo: repo}
}

// Handle executes the delete medicine command. Deletion is refused
// while any sale line item still references the medicine.
func (h *DeleteMedicineHandler) Handle(cmd DeleteMedicineCommand) error {
	if cmd.ID == 0 {
		return fmt.Errorf("medicine id is required")
	}

	return h.repo.Delete(cmd.ID)
}
