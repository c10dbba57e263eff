package inventory

import (
	"context"

	"github.com/tu-usuario/solar-inventario/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el motor de
// inventario: toda mutación (create, update, append, despacho) corre dentro
// de Run y bloquea las filas que toca con SELECT FOR UPDATE.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		itemRepo repository.ItemRepository,
		txRepo repository.TransactionRepository,
		dispatchRepo repository.DispatchRepository,
	) error) error

	// RunStats ejecuta consultas read-only sobre un snapshot consistente
	// (REPEATABLE READ): las estadísticas pueden ser levemente antiguas pero
	// nunca observan estado parcial.
	RunStats(ctx context.Context, fn func(statsRepo repository.StatsRepository) error) error
}
