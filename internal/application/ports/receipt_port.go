package ports

import "github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/domain/entity"

// ReceiptGenerator genera el comprobante (PDF) de una venta pagada.
type ReceiptGenerator interface {
	Generate(sale *entity.Sale) ([]byte, error)
}
