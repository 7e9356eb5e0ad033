package domain

import (
	"errors"

	"github.com/jhoicas/trade-ledger/pkg/numeric"
)

// Errores de dominio.
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	// ErrDivisionByZero proviene del motor decimal; nunca se silencia.
	ErrDivisionByZero = numeric.ErrDivisionByZero
	// ErrConsistencyViolation la proyección no coincide con la suma del ledger; requiere RebuildAll.
	ErrConsistencyViolation = errors.New("proyección de stock inconsistente con el ledger")
	// ErrTransactionFailure cualquier fallo de almacenamiento durante append/revert/rebuild.
	ErrTransactionFailure = errors.New("falló la transacción de ledger")
)
