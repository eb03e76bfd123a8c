package domain

import "github.com/shopspring/decimal"

// Line 结算输入行：购物车条目连同加购时的库存快照
type Line struct {
	ProductID     string          `json:"product_id"`
	Name          string          `json:"name"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Quantity      int64           `json:"quantity"`
	SnapshotStock int64           `json:"snapshot_stock"`
}

// StockUpdate 单个商品的库存与销量变更。
// ClampToZero 为真时库存整体写 0 而不是做减法。
type StockUpdate struct {
	ProductID   string
	StockDelta  int64
	ClampToZero bool
	SoldDelta   int64
}

// BuildBatch 按快照库存对每行做钳制：
// 数量小于快照库存时库存减数量、销量加数量；
// 否则库存直接写 0，销量加数量与快照库存中较小的一个。
// 数量等于快照库存走钳制分支。
func BuildBatch(lines []Line) []StockUpdate {
	updates := make([]StockUpdate, 0, len(lines))
	for _, line := range lines {
		update := StockUpdate{ProductID: line.ProductID}
		if line.Quantity < line.SnapshotStock {
			update.StockDelta = -line.Quantity
			update.SoldDelta = line.Quantity
		} else {
			update.ClampToZero = true
			if line.Quantity <= line.SnapshotStock {
				update.SoldDelta = line.Quantity
			} else {
				update.SoldDelta = line.SnapshotStock
			}
		}
		updates = append(updates, update)
	}
	return updates
}
