package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func line(id string, quantity, stock int64) Line {
	return Line{
		ProductID:     id,
		Name:          "product " + id,
		UnitPrice:     decimal.New(100, -2),
		Quantity:      quantity,
		SnapshotStock: stock,
	}
}

func TestBuildBatchBelowStock(t *testing.T) {
	updates := BuildBatch([]Line{line("p1", 2, 5)})

	assert.Equal(t, []StockUpdate{{
		ProductID:  "p1",
		StockDelta: -2,
		SoldDelta:  2,
	}}, updates)
}

func TestBuildBatchQuantityEqualsStock(t *testing.T) {
	// 数量等于快照库存走钳制分支：库存写 0，销量加全部数量
	updates := BuildBatch([]Line{line("p1", 5, 5)})

	assert.Equal(t, []StockUpdate{{
		ProductID:   "p1",
		ClampToZero: true,
		SoldDelta:   5,
	}}, updates)
}

func TestBuildBatchQuantityAboveStock(t *testing.T) {
	// 库存在加购后被卖家调低：销量只加剩余库存
	updates := BuildBatch([]Line{line("p1", 7, 3)})

	assert.Equal(t, []StockUpdate{{
		ProductID:   "p1",
		ClampToZero: true,
		SoldDelta:   3,
	}}, updates)
}

func TestBuildBatchMixedLines(t *testing.T) {
	updates := BuildBatch([]Line{
		line("p1", 4, 5),
		line("p2", 5, 5),
		line("p3", 9, 2),
	})

	assert.Equal(t, []StockUpdate{
		{ProductID: "p1", StockDelta: -4, SoldDelta: 4},
		{ProductID: "p2", ClampToZero: true, SoldDelta: 5},
		{ProductID: "p3", ClampToZero: true, SoldDelta: 2},
	}, updates)
}

func TestBuildBatchEmpty(t *testing.T) {
	assert.Empty(t, BuildBatch(nil))
}
