package routing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/mes-api/internal/domain"
	"github.com/jhoicas/mes-api/internal/domain/entity"
	"github.com/jhoicas/mes-api/internal/domain/repository"
)

// Separación de Seq entre pasos consecutivos; los huecos permiten insertar
// pasos manuales después.
const seqStep = 10

// RoutingUseCase operaciones sobre la ruta de fabricación de un producto
// (el "traveler"). El reemplazo es siempre borrar-y-recrear, nunca un merge
// incremental: varios llamadores dependen de que los pasos obsoletos desaparezcan.
type RoutingUseCase struct {
	txRunner    TxRunner
	routingRepo repository.RoutingRepository
	processRepo repository.ProcessRepository
}

// NewRoutingUseCase construye el caso de uso.
func NewRoutingUseCase(txRunner TxRunner, routingRepo repository.RoutingRepository, processRepo repository.ProcessRepository) *RoutingUseCase {
	return &RoutingUseCase{txRunner: txRunner, routingRepo: routingRepo, processRepo: processRepo}
}

// SetRouting reemplaza atómicamente la ruta completa del producto con la
// secuencia dada. Valida que cada código exista y esté activo
// (ErrInvalidProcessCode), que la lista no esté vacía (ErrEmptyRouting) y que
// no haya repetidos (ErrDuplicate). Los Seq resultantes son 10, 20, 30, …
// en el orden de entrada, todos con IsRequired = true.
func (uc *RoutingUseCase) SetRouting(ctx context.Context, productID string, processCodes []string) ([]*entity.RoutingEntry, error) {
	if productID == "" {
		return nil, domain.ErrInvalidInput
	}
	if len(processCodes) == 0 {
		return nil, domain.ErrEmptyRouting
	}
	codes := domain.NormalizeCodes(processCodes)
	seen := make(map[string]bool, len(codes))
	for _, code := range codes {
		if seen[code] {
			return nil, fmt.Errorf("%w: %s", domain.ErrDuplicate, code)
		}
		seen[code] = true
		if err := uc.requireActiveProcess(code); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	entries := make([]*entity.RoutingEntry, len(codes))
	for i, code := range codes {
		entries[i] = &entity.RoutingEntry{
			ID:          uuid.New().String(),
			ProductID:   productID,
			ProcessCode: code,
			Seq:         (i + 1) * seqStep,
			IsRequired:  true,
			CreatedAt:   now,
		}
	}

	err := uc.txRunner.RunRouting(ctx, func(routingRepo repository.RoutingRepository) error {
		if _, err := routingRepo.DeleteByProduct(productID); err != nil {
			return err
		}
		for _, e := range entries {
			if err := routingRepo.Create(e); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// SetRoutingFromPattern resuelve un patrón incorporado y delega en SetRouting.
// Devuelve ErrUnknownPattern si el nombre no corresponde a ningún patrón.
func (uc *RoutingUseCase) SetRoutingFromPattern(ctx context.Context, productID, patternName string) ([]*entity.RoutingEntry, error) {
	codes, ok := Pattern(patternName)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownPattern, patternName)
	}
	return uc.SetRouting(ctx, productID, codes)
}

// CreateEntryInput datos para insertar un paso suelto (ajuste manual fino).
type CreateEntryInput struct {
	ProductID   string
	ProcessCode string
	Seq         int
	IsRequired  bool
}

// CreateEntry inserta un paso individual validando el código igual que SetRouting.
// Devuelve ErrDuplicate si el producto ya contiene ese proceso.
func (uc *RoutingUseCase) CreateEntry(in CreateEntryInput) (*entity.RoutingEntry, error) {
	if in.ProductID == "" || in.Seq <= 0 {
		return nil, domain.ErrInvalidInput
	}
	code := domain.NormalizeCode(in.ProcessCode)
	if err := uc.requireActiveProcess(code); err != nil {
		return nil, err
	}
	e := &entity.RoutingEntry{
		ID:          uuid.New().String(),
		ProductID:   in.ProductID,
		ProcessCode: code,
		Seq:         in.Seq,
		IsRequired:  in.IsRequired,
		CreatedAt:   time.Now(),
	}
	if err := uc.routingRepo.Create(e); err != nil {
		return nil, err
	}
	return e, nil
}

// UpdateEntry edita Seq y/o IsRequired de un paso existente.
// Devuelve ErrRoutingEntryNotFound si el id no existe.
func (uc *RoutingUseCase) UpdateEntry(id string, seq *int, isRequired *bool) (*entity.RoutingEntry, error) {
	e, err := uc.routingRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, domain.ErrRoutingEntryNotFound
	}
	if seq != nil {
		if *seq <= 0 {
			return nil, domain.ErrInvalidInput
		}
		e.Seq = *seq
	}
	if isRequired != nil {
		e.IsRequired = *isRequired
	}
	if err := uc.routingRepo.Update(e); err != nil {
		return nil, err
	}
	return e, nil
}

// DeleteEntry elimina un paso por id. ErrRoutingEntryNotFound si no existe.
func (uc *RoutingUseCase) DeleteEntry(id string) error {
	e, err := uc.routingRepo.GetByID(id)
	if err != nil {
		return err
	}
	if e == nil {
		return domain.ErrRoutingEntryNotFound
	}
	return uc.routingRepo.Delete(id)
}

// ClearRouting elimina todos los pasos del producto y devuelve cuántos había.
func (uc *RoutingUseCase) ClearRouting(ctx context.Context, productID string) (int, error) {
	var removed int
	err := uc.txRunner.RunRouting(ctx, func(routingRepo repository.RoutingRepository) error {
		n, err := routingRepo.DeleteByProduct(productID)
		removed = n
		return err
	})
	return removed, err
}

// GetRouting devuelve la ruta del producto ordenada por Seq ascendente.
func (uc *RoutingUseCase) GetRouting(productID string) ([]*entity.RoutingEntry, error) {
	return uc.routingRepo.ListByProduct(productID)
}

// CountRoutings devuelve cuántos pasos tiene la ruta del producto.
func (uc *RoutingUseCase) CountRoutings(productID string) (int, error) {
	return uc.routingRepo.CountByProduct(productID)
}

// CopyRouting limpia la ruta del destino y duplica los pasos del origen
// (mismo Seq, mismo IsRequired) en una sola transacción.
// Devuelve ErrNothingToCopy si el origen no tiene pasos.
func (uc *RoutingUseCase) CopyRouting(ctx context.Context, sourceProductID, targetProductID string) ([]*entity.RoutingEntry, error) {
	if sourceProductID == "" || targetProductID == "" || sourceProductID == targetProductID {
		return nil, domain.ErrInvalidInput
	}
	source, err := uc.routingRepo.ListByProduct(sourceProductID)
	if err != nil {
		return nil, err
	}
	if len(source) == 0 {
		return nil, domain.ErrNothingToCopy
	}

	now := time.Now()
	copies := make([]*entity.RoutingEntry, len(source))
	for i, src := range source {
		copies[i] = &entity.RoutingEntry{
			ID:          uuid.New().String(),
			ProductID:   targetProductID,
			ProcessCode: src.ProcessCode,
			Seq:         src.Seq,
			IsRequired:  src.IsRequired,
			CreatedAt:   now,
		}
	}

	err = uc.txRunner.RunRouting(ctx, func(routingRepo repository.RoutingRepository) error {
		if _, err := routingRepo.DeleteByProduct(targetProductID); err != nil {
			return err
		}
		for _, e := range copies {
			if err := routingRepo.Create(e); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return copies, nil
}

// requireActiveProcess valida que un código (ya normalizado) exista y esté activo.
func (uc *RoutingUseCase) requireActiveProcess(code string) error {
	p, err := uc.processRepo.GetByCode(code)
	if err != nil {
		return err
	}
	if p == nil || !p.IsActive {
		return fmt.Errorf("%w: %s", domain.ErrInvalidProcessCode, code)
	}
	return nil
}
