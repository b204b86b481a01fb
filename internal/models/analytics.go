package models

// Analytics — агрегаты по каталогу для админ-дашборда.
// Считаются запросами с GROUP BY, без моков.
type Analytics struct {
	TotalWatches int64         `json:"totalWatches"`
	TotalValue   int64         `json:"totalValue"`   // сумма цен, центы
	AveragePrice int64         `json:"averagePrice"` // центы
	ByBrand      []BucketCount `json:"byBrand"`
	ByMaterial   []BucketCount `json:"byMaterial"`
	BySize       []SizeCount   `json:"bySize"`
}

type BucketCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

type SizeCount struct {
	Size  float64 `json:"size"`
	Count int64   `json:"count"`
}
