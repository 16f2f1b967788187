// Package catalog importa un snapshot del catálogo de productos desde CSV.
// El catálogo lo administra otro servicio; este import sirve para sembrar la base y el backend en memoria.
//
// Formato (con cabecera):
//
//	id,store_id,name,price,sale_price,on_sale,min_order_qty,max_order_qty,stock
//
// Los exportes de hoja de cálculo suelen venir en ISO-8859-1; Load los convierte a UTF-8.
package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/domain/entity"
)

var columns = []string{"id", "store_id", "name", "price", "sale_price", "on_sale", "min_order_qty", "max_order_qty", "stock"}

// LoadFile abre path y delega en Load.
func LoadFile(path string, latin1 bool) ([]*entity.Product, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: abrir %s: %w", path, err)
	}
	defer f.Close()
	return Load(f, latin1)
}

// Load lee productos del CSV. StockEngaged siempre inicia en 0.
func Load(r io.Reader, latin1 bool) ([]*entity.Product, error) {
	if latin1 {
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("catalog: leer cabecera: %w", err)
	}
	idx, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	var out []*entity.Product
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("catalog: línea %d: %w", line, err)
		}
		p, err := parseRecord(rec, idx)
		if err != nil {
			return nil, fmt.Errorf("catalog: línea %d: %w", line, err)
		}
		p.CreatedAt, p.UpdatedAt = now, now
		out = append(out, p)
	}
	return out, nil
}

func columnIndex(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, c := range columns {
		if _, ok := idx[c]; !ok {
			return nil, fmt.Errorf("catalog: falta la columna %q", c)
		}
	}
	return idx, nil
}

func parseRecord(rec []string, idx map[string]int) (*entity.Product, error) {
	get := func(c string) string { return strings.TrimSpace(rec[idx[c]]) }

	p := &entity.Product{ID: get("id"), StoreID: get("store_id"), Name: get("name")}
	if p.ID == "" || p.StoreID == "" || p.Name == "" {
		return nil, fmt.Errorf("id, store_id y name son obligatorios")
	}
	var err error
	if p.Price, err = decimal.NewFromString(get("price")); err != nil {
		return nil, fmt.Errorf("price: %w", err)
	}
	if s := get("sale_price"); s != "" {
		if p.SalePrice, err = decimal.NewFromString(s); err != nil {
			return nil, fmt.Errorf("sale_price: %w", err)
		}
	}
	if s := get("on_sale"); s != "" {
		if p.OnSale, err = strconv.ParseBool(s); err != nil {
			return nil, fmt.Errorf("on_sale: %w", err)
		}
	}
	ints := map[string]*int{"min_order_qty": &p.MinOrderQty, "max_order_qty": &p.MaxOrderQty, "stock": &p.Stock}
	for c, dst := range ints {
		s := get(c)
		if s == "" {
			continue
		}
		if *dst, err = strconv.Atoi(s); err != nil {
			return nil, fmt.Errorf("%s: %w", c, err)
		}
		if *dst < 0 {
			return nil, fmt.Errorf("%s: no puede ser negativo", c)
		}
	}
	return p, nil
}
