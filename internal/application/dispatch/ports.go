package dispatch

import "github.com/tu-usuario/solar-inventario/internal/domain/entity"

// NotePDFGenerator genera la remisión (nota de entrega) de un despacho.
// itemNames mapea inventory_id a su etiqueta humana para las líneas.
type NotePDFGenerator interface {
	DeliveryNote(d *entity.FarmerDispatch, itemNames map[int64]string) ([]byte, error)
}
