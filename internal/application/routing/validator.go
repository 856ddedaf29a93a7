package routing

import (
	"fmt"

	"github.com/jhoicas/mes-api/internal/domain"
	"github.com/jhoicas/mes-api/internal/domain/repository"
)

// Códigos enumerables de fallo de validación. El mensaje acompaña al código
// para mostrar en UI; los llamadores por lotes deciden sobre el código.
const (
	CheckEmptyRouting     = "EMPTY_ROUTING"
	CheckDuplicateSeq     = "DUPLICATE_SEQ"
	CheckDuplicateProcess = "DUPLICATE_PROCESS"
	CheckInvalidStart     = "INVALID_START"
	CheckInvalidEnd       = "INVALID_END"
	CheckSameProcess      = "SAME_PROCESS"
	CheckNotInRouting     = "NOT_IN_ROUTING"
	CheckNotLater         = "NOT_LATER"
	CheckInvalidCode      = "INVALID_CODE"
)

// Procesos con los que puede iniciar una ruta: corte/crimpado automático y
// crimpado manual.
var routingStartCodes = map[string]bool{"CA": true, "MC": true}

// ValidationResult resultado de una validación. Las validaciones devuelven
// resultado en vez de error para que la UI pueda mostrar todo de una vez;
// solo los fallos de almacenamiento se propagan como error.
type ValidationResult struct {
	Valid   bool
	Code    string
	Message string
}

func invalid(code, format string, args ...any) ValidationResult {
	return ValidationResult{Valid: false, Code: code, Message: fmt.Sprintf(format, args...)}
}

var validResult = ValidationResult{Valid: true}

// Validator validaciones estructurales y semánticas sobre rutas de fabricación.
type Validator struct {
	routingRepo repository.RoutingRepository
	processRepo repository.ProcessRepository
}

// NewValidator construye el validador.
func NewValidator(routingRepo repository.RoutingRepository, processRepo repository.ProcessRepository) *Validator {
	return &Validator{routingRepo: routingRepo, processRepo: processRepo}
}

// ValidateOrder verifica que toCode sea un proceso posterior a fromCode dentro
// de la ruta del producto. Falla si son el mismo proceso, si alguno no
// pertenece a la ruta, o si toCode no va después.
func (v *Validator) ValidateOrder(productID, fromCode, toCode string) (ValidationResult, error) {
	from := domain.NormalizeCode(fromCode)
	to := domain.NormalizeCode(toCode)
	if from == to {
		return invalid(CheckSameProcess, "no se puede mover al mismo proceso (%s)", from), nil
	}
	entries, err := v.routingRepo.ListByProduct(productID)
	if err != nil {
		return ValidationResult{}, err
	}
	fromSeq, toSeq := -1, -1
	for _, e := range entries {
		switch e.ProcessCode {
		case from:
			fromSeq = e.Seq
		case to:
			toSeq = e.Seq
		}
	}
	if fromSeq < 0 {
		return invalid(CheckNotInRouting, "el proceso %s no está en la ruta", from), nil
	}
	if toSeq < 0 {
		return invalid(CheckNotInRouting, "el proceso %s no está en la ruta", to), nil
	}
	if toSeq <= fromSeq {
		return invalid(CheckNotLater, "%s debe ser un proceso posterior a %s", to, from), nil
	}
	return validResult, nil
}

// ValidateRouting valida la estructura de la ruta completa de un producto.
// Las condiciones se comprueban en este orden fijo, cortando en el primer
// fallo: ruta no vacía, Seq únicos, procesos únicos, inicio válido (CA o MC),
// y último paso de inspección.
func (v *Validator) ValidateRouting(productID string) (ValidationResult, error) {
	entries, err := v.routingRepo.ListByProduct(productID)
	if err != nil {
		return ValidationResult{}, err
	}
	if len(entries) == 0 {
		return invalid(CheckEmptyRouting, "la ruta del producto está vacía"), nil
	}

	seqSeen := make(map[int]bool, len(entries))
	for _, e := range entries {
		if seqSeen[e.Seq] {
			return invalid(CheckDuplicateSeq, "secuencia duplicada: %d", e.Seq), nil
		}
		seqSeen[e.Seq] = true
	}

	codeSeen := make(map[string]bool, len(entries))
	for _, e := range entries {
		if codeSeen[e.ProcessCode] {
			return invalid(CheckDuplicateProcess, "proceso duplicado: %s", e.ProcessCode), nil
		}
		codeSeen[e.ProcessCode] = true
	}

	hasStart := false
	for _, e := range entries {
		if routingStartCodes[e.ProcessCode] {
			hasStart = true
			break
		}
	}
	if !hasStart {
		return invalid(CheckInvalidStart, "la ruta debe incluir un proceso inicial (CA o MC)"), nil
	}

	last := entries[len(entries)-1]
	lastProcess, err := v.processRepo.GetByCode(last.ProcessCode)
	if err != nil {
		return ValidationResult{}, err
	}
	if lastProcess == nil || !lastProcess.IsInspection {
		return invalid(CheckInvalidEnd, "el último proceso debe ser de inspección (%s no lo es)", last.ProcessCode), nil
	}
	return validResult, nil
}

// ValidateProcessCodes valida una lista de códigos independiente de cualquier
// ruta almacenada: no vacía, todos resolubles en el catálogo y sin repetidos
// (insensible a mayúsculas). No comprueba semántica de inicio/fin.
func (v *Validator) ValidateProcessCodes(codes []string) (ValidationResult, error) {
	if len(codes) == 0 {
		return invalid(CheckEmptyRouting, "la lista de procesos está vacía"), nil
	}
	normalized := domain.NormalizeCodes(codes)
	seen := make(map[string]bool, len(normalized))
	for _, code := range normalized {
		p, err := v.processRepo.GetByCode(code)
		if err != nil {
			return ValidationResult{}, err
		}
		if p == nil {
			return invalid(CheckInvalidCode, "código de proceso desconocido: %s", code), nil
		}
		if seen[code] {
			return invalid(CheckDuplicateProcess, "proceso duplicado: %s", code), nil
		}
		seen[code] = true
	}
	return validResult, nil
}
