package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/limweiliang/stockroom/internal/errs"
	"github.com/limweiliang/stockroom/internal/model"
	"github.com/limweiliang/stockroom/internal/repository"
	"github.com/limweiliang/stockroom/internal/sqlbuild"
)

// SaleRepo implements SaleRepository using PostgreSQL. A sale and its negative
// ledger entry are written and removed together so the lot balance stays equal
// to the ledger sum.
type SaleRepo struct{ db *DB }

// NewSaleRepo constructs a sale repository.
func NewSaleRepo(db *DB) *SaleRepo { return &SaleRepo{db: db} }

const saleColumns = `
SELECT sl.sale_id, sl.stock_trx_id, t.sku, p.product_id, p.name, p.category,
       sl.unit_price, sl.sold_quantity, sl.unit_price * sl.sold_quantity AS sub_total,
       u.user_id AS sold_by_user_id,
       u.first_name || ' ' || u.last_name AS sold_by_user_name,
       sl.sold_on `

const saleJoin = `
FROM sales AS sl
INNER JOIN stock_trx AS t ON t.stock_trx_id = sl.stock_trx_id
INNER JOIN stock AS s ON s.sku = t.sku
INNER JOIN products AS p ON p.product_id = s.product_id
INNER JOIN users AS u ON u.user_id = sl.sold_by `

// List returns one page of sales matching f plus the total match count.
func (r *SaleRepo) List(ctx context.Context, f repository.SaleFilter, page int) ([]model.Sale, int, error) {
	q := sqlbuild.NewQuery()
	q.AppendSelect(saleColumns)
	q.AppendFrom(saleJoin)

	if f.ProductID != 0 {
		q.AppendWhere("p.product_id = ? ")
		q.BindWhere(sqlbuild.Int(f.ProductID))
	}
	if f.Category != "" {
		q.AppendWhere("p.category = ? ")
		q.BindWhere(sqlbuild.Text(f.Category))
	}

	q.AppendTail("ORDER BY sl.sale_id DESC LIMIT 20 OFFSET ? ")
	q.BindTail(sqlbuild.Int(int64((page - 1) * repository.PageSize)))

	sql, args := q.Build()
	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var sales []model.Sale
	for rows.Next() {
		var (
			s                   model.Sale
			unitMinor, subMinor int64
		)
		if err := rows.Scan(
			&s.ID, &s.StockTrxID, &s.SKU, &s.ProductID, &s.ProductName, &s.ProductCategory,
			&unitMinor, &s.SoldQuantity, &subMinor,
			&s.SoldByUserID, &s.SoldByUserName, &s.SoldOn,
		); err != nil {
			return nil, 0, err
		}
		s.UnitPrice = model.PriceFromMinorUnits(unitMinor)
		s.SubTotalPrice = model.PriceFromMinorUnits(subMinor)
		sales = append(sales, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	count := sqlbuild.NewQuery()
	count.AppendSelect("SELECT count(*) ")
	count.AppendFrom(q.From())
	count.AppendWhere(q.Where())
	count.BindWhere(q.WhereParams()...)

	csql, cargs := count.Build()
	var total int
	if err := r.db.Pool.QueryRow(ctx, csql, cargs...).Scan(&total); err != nil {
		return nil, 0, err
	}
	return sales, total, nil
}

// Create sells soldQuantity units from sku at the product's current price.
func (r *SaleRepo) Create(ctx context.Context, sku string, soldQuantity int, actorID int64) (saleID int64, err error) {
	tx, err := r.db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
			return
		}
		if e := tx.Commit(ctx); e != nil {
			err = e
		}
	}()

	var (
		current   int
		unitMinor int64
	)
	row := tx.QueryRow(ctx, `
SELECT s.quantity, p.product_price
FROM stock AS s
INNER JOIN products AS p ON p.product_id = s.product_id
WHERE s.sku = $1
FOR UPDATE OF s`, sku)
	if err = row.Scan(&current, &unitMinor); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, errs.ErrNotFound
		}
		return 0, err
	}
	if soldQuantity > current {
		return 0, errs.ErrInsufficientStock
	}

	if _, err = tx.Exec(ctx,
		`UPDATE stock SET quantity = $2 WHERE sku = $1`, sku, current-soldQuantity); err != nil {
		return 0, err
	}

	var trxID int64
	err = tx.QueryRow(ctx, `
INSERT INTO stock_trx (sku, quantity_varied, remark, created_by, created_on)
VALUES ($1, $2, 'Sold', $3, now())
RETURNING stock_trx_id`, sku, -soldQuantity, actorID).Scan(&trxID)
	if err != nil {
		return 0, err
	}

	err = tx.QueryRow(ctx, `
INSERT INTO sales (stock_trx_id, unit_price, sold_quantity, sold_by, sold_on)
VALUES ($1, $2, $3, $4, now())
RETURNING sale_id`, trxID, unitMinor, soldQuantity, actorID).Scan(&saleID)
	return saleID, err
}

// Delete reverses a sale, restoring the sold quantity to the lot balance.
func (r *SaleRepo) Delete(ctx context.Context, saleID int64) (err error) {
	tx, err := r.db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
			return
		}
		if e := tx.Commit(ctx); e != nil {
			err = e
		}
	}()

	var (
		trxID   int64
		sku     string
		soldQty int
	)
	row := tx.QueryRow(ctx, `
SELECT sl.stock_trx_id, t.sku, sl.sold_quantity
FROM sales AS sl
INNER JOIN stock_trx AS t ON t.stock_trx_id = sl.stock_trx_id
WHERE sl.sale_id = $1`, saleID)
	if err = row.Scan(&trxID, &sku, &soldQty); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return errs.ErrNotFound
		}
		return err
	}

	var current int
	row = tx.QueryRow(ctx, `SELECT quantity FROM stock WHERE sku = $1 FOR UPDATE`, sku)
	if err = row.Scan(&current); err != nil {
		return err
	}

	if _, err = tx.Exec(ctx,
		`UPDATE stock SET quantity = $2 WHERE sku = $1`, sku, current+soldQty); err != nil {
		return err
	}
	if _, err = tx.Exec(ctx, `DELETE FROM sales WHERE sale_id = $1`, saleID); err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `DELETE FROM stock_trx WHERE stock_trx_id = $1`, trxID)
	return err
}
