// Package catalog описывает подбор по каталогу: типизированный фильтр
// и единственное определение его предиката. И SQL-ветка (repo), и
// локальный пересчёт на клиенте (view) обязаны давать тот же результат,
// что Filter.Matches — иначе список «мигает» при обновлении с сервера.
package catalog

import (
	"fmt"
	"math"
	"net/url"
	"strconv"

	"lume/internal/models"
)

// Filter — выбранные измерения подбора. Пустой слайс / nil-граница
// означает «без ограничения». Измерения сочетаются через AND,
// значения внутри измерения — через OR.
// Цены — в минорных единицах (центах), границы включительные.
type Filter struct {
	Brands    []string
	Sizes     []float64
	Materials []string
	PriceMin  *int64
	PriceMax  *int64
}

// IsZero — ни одно измерение не задано (подбор эквивалентен полному списку).
func (f Filter) IsZero() bool {
	return len(f.Brands) == 0 && len(f.Sizes) == 0 && len(f.Materials) == 0 &&
		f.PriceMin == nil && f.PriceMax == nil
}

// Matches — предикат фильтра для одной позиции.
func (f Filter) Matches(w models.Watch) bool {
	if len(f.Brands) > 0 && !containsString(f.Brands, w.Brand) {
		return false
	}
	if len(f.Sizes) > 0 && !containsFloat(f.Sizes, w.Size) {
		return false
	}
	if len(f.Materials) > 0 && !containsString(f.Materials, w.Material) {
		return false
	}
	if f.PriceMin != nil && w.Price < *f.PriceMin {
		return false
	}
	if f.PriceMax != nil && w.Price > *f.PriceMax {
		return false
	}
	return true
}

// Apply отбирает из списка позиции, проходящие предикат.
// Используется in-memory хранилищем и локальным пересчётом на клиенте.
func (f Filter) Apply(ws []models.Watch) []models.Watch {
	out := make([]models.Watch, 0, len(ws))
	for _, w := range ws {
		if f.Matches(w) {
			out = append(out, w)
		}
	}
	return out
}

func containsString(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}

func containsFloat(xs []float64, v float64) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}

// maxMajor — верхняя граница цены в мажорных единицах, при которой
// конвертация в центы не переполняет int64.
const maxMajor = math.MaxInt64 / 100

// ParseQuery разбирает query-параметры в Filter. Валидация происходит
// один раз здесь, на границе API: дальше фильтр ходит только как
// типизированная структура.
//
// brand/size/material — повторяемые параметры; priceMin/priceMax
// приходят в мажорных единицах и конвертируются в центы. Если задана
// только одна граница, вторая достраивается как 0 / максимум — так же
// вёл себя исходный обработчик.
func ParseQuery(q url.Values) (Filter, error) {
	var f Filter

	f.Brands = append(f.Brands, q["brand"]...)
	f.Materials = append(f.Materials, q["material"]...)

	for _, raw := range q["size"] {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Filter{}, fmt.Errorf("invalid size %q", raw)
		}
		f.Sizes = append(f.Sizes, v)
	}

	rawMin, rawMax := q.Get("priceMin"), q.Get("priceMax")
	if rawMin != "" || rawMax != "" {
		min, max := int64(0), int64(maxMajor)
		var err error
		if rawMin != "" {
			if min, err = strconv.ParseInt(rawMin, 10, 64); err != nil {
				return Filter{}, fmt.Errorf("invalid priceMin %q", rawMin)
			}
		}
		if rawMax != "" {
			if max, err = strconv.ParseInt(rawMax, 10, 64); err != nil {
				return Filter{}, fmt.Errorf("invalid priceMax %q", rawMax)
			}
		}
		if min < 0 || max < 0 {
			return Filter{}, fmt.Errorf("price bounds must not be negative")
		}
		if min > maxMajor {
			min = maxMajor
		}
		if max > maxMajor {
			max = maxMajor
		}
		minC, maxC := min*100, max*100
		f.PriceMin, f.PriceMax = &minC, &maxC
	}

	return f, nil
}

// Values — обратная операция к ParseQuery для клиента.
// Границы цены уходят обратно в мажорных единицах (целочисленное
// деление: на практике границы задаются в целых единицах валюты).
func (f Filter) Values() url.Values {
	q := url.Values{}
	for _, b := range f.Brands {
		q.Add("brand", b)
	}
	for _, s := range f.Sizes {
		q.Add("size", strconv.FormatFloat(s, 'f', -1, 64))
	}
	for _, m := range f.Materials {
		q.Add("material", m)
	}
	if f.PriceMin != nil {
		q.Set("priceMin", strconv.FormatInt(*f.PriceMin/100, 10))
	}
	if f.PriceMax != nil {
		q.Set("priceMax", strconv.FormatInt(*f.PriceMax/100, 10))
	}
	return q
}

// PriceRange — удобный конструктор включительного диапазона в центах.
func PriceRange(minCents, maxCents int64) (*int64, *int64) {
	return &minCents, &maxCents
}
