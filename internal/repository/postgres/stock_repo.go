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

// StockRepo implements StockRepository using PostgreSQL. Composite writes run
// in a single transaction so the stored quantity always equals the ledger sum
// for its SKU.
type StockRepo struct{ db *DB }

// NewStockRepo constructs a stock repository.
func NewStockRepo(db *DB) *StockRepo { return &StockRepo{db: db} }

const stockColumns = `
SELECT s.sku, p.product_id, p.name, p.category, p.product_price, p.product_pic,
       s.quantity, s.exp_date,
       c.user_id AS created_by_user_id,
       c.first_name || ' ' || c.last_name AS created_by_user_name,
       s.created_on `

const stockJoin = `
FROM stock AS s
INNER JOIN users AS c ON c.user_id = s.created_by
INNER JOIN products AS p ON p.product_id = s.product_id `

// List returns one page of stock lots matching f plus the total match count.
func (r *StockRepo) List(ctx context.Context, f repository.StockFilter, page int) ([]model.Stock, int, error) {
	q := sqlbuild.NewQuery()
	q.AppendSelect(stockColumns)
	q.AppendFrom(stockJoin)

	if f.SKU != "" {
		q.AppendWhere("s.sku = ? ")
		q.BindWhere(sqlbuild.Text(f.SKU))
	}
	if f.Name != "" {
		q.AppendWhere("p.name LIKE ? ")
		q.BindWhere(sqlbuild.Text(f.Name + "%"))
	}
	if f.Category != "" {
		q.AppendWhere("p.category = ? ")
		q.BindWhere(sqlbuild.Text(f.Category))
	}
	if f.ProductID != 0 {
		q.AppendWhere("p.product_id = ? ")
		q.BindWhere(sqlbuild.Int(f.ProductID))
	}
	if !f.ExpiryFrom.IsZero() {
		q.AppendWhere("s.exp_date >= ? ")
		q.BindWhere(sqlbuild.Text(f.ExpiryFrom.Format("2006-01-02")))
	}
	if !f.ExpiryTo.IsZero() {
		q.AppendWhere("s.exp_date <= ? ")
		q.BindWhere(sqlbuild.Text(f.ExpiryTo.Format("2006-01-02")))
	}

	q.AppendTail("ORDER BY s.sku DESC LIMIT 20 OFFSET ? ")
	q.BindTail(sqlbuild.Int(int64((page - 1) * repository.PageSize)))

	sql, args := q.Build()
	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var lots []model.Stock
	for rows.Next() {
		s, err := scanStock(rows)
		if err != nil {
			return nil, 0, err
		}
		lots = append(lots, s)
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
	return lots, total, nil
}

func scanStock(row pgx.Row) (model.Stock, error) {
	var (
		s     model.Stock
		minor int64
	)
	err := row.Scan(
		&s.SKU, &s.ProductID, &s.ProductName, &s.ProductCategory, &minor, &s.ProductPic,
		&s.Quantity, &s.ExpiryDate,
		&s.CreatedByUserID, &s.CreatedByUserName, &s.CreatedOn,
	)
	if err != nil {
		return model.Stock{}, err
	}
	s.ProductPrice = model.PriceFromMinorUnits(minor)
	return s, nil
}

// GetBySKU selects a stock lot by SKU.
func (r *StockRepo) GetBySKU(ctx context.Context, sku string) (*model.Stock, error) {
	row := r.db.Pool.QueryRow(ctx, stockColumns+stockJoin+`WHERE s.sku = $1`, sku)
	s, err := scanStock(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// Exists reports whether a stock row exists.
func (r *StockRepo) Exists(ctx context.Context, sku string) (bool, error) {
	var ok bool
	err := r.db.Pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM stock WHERE sku = $1)`, sku).Scan(&ok)
	return ok, err
}

// Create inserts a lot together with its initial ledger entry in one
// transaction.
func (r *StockRepo) Create(ctx context.Context, s repository.NewStock) (err error) {
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

	const ins = `
INSERT INTO stock (sku, product_id, exp_date, quantity, created_by, created_on)
VALUES ($1, $2, $3, $4, $5, now())`
	if _, err = tx.Exec(ctx, ins,
		s.SKU, s.ProductID, s.ExpiryDate.Format("2006-01-02"), s.Quantity, s.CreatedBy,
	); err != nil {
		return err
	}

	const trx = `
INSERT INTO stock_trx (sku, quantity_varied, remark, created_by, created_on)
VALUES ($1, $2, $3, $4, now())`
	_, err = tx.Exec(ctx, trx, s.SKU, s.Quantity, s.Remark, s.CreatedBy)
	return err
}

// Adjust applies a signed quantity delta under a row lock and appends the
// matching ledger entry.
func (r *StockRepo) Adjust(ctx context.Context, sku string, delta int, remark string, actorID int64) (err error) {
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

	var current int
	row := tx.QueryRow(ctx, `SELECT quantity FROM stock WHERE sku = $1 FOR UPDATE`, sku)
	if err = row.Scan(&current); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return errs.ErrNotFound
		}
		return err
	}
	if -delta > current {
		return errs.ErrInsufficientStock
	}

	if _, err = tx.Exec(ctx,
		`UPDATE stock SET quantity = $2 WHERE sku = $1`, sku, current+delta); err != nil {
		return err
	}

	const trx = `
INSERT INTO stock_trx (sku, quantity_varied, remark, created_by, created_on)
VALUES ($1, $2, $3, $4, now())`
	_, err = tx.Exec(ctx, trx, sku, delta, remark, actorID)
	return err
}

// Delete removes a lot and its creation ledger entry. A ledger holding more
// than the creation entry blocks deletion.
func (r *StockRepo) Delete(ctx context.Context, sku string) (err error) {
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

	var exists bool
	row := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM stock WHERE sku = $1 FOR UPDATE)`, sku)
	if err = row.Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return errs.ErrNotFound
	}

	var trxCount int
	if err = tx.QueryRow(ctx,
		`SELECT count(*) FROM stock_trx WHERE sku = $1`, sku).Scan(&trxCount); err != nil {
		return err
	}
	if trxCount > 1 {
		return errs.ErrDepended
	}

	if _, err = tx.Exec(ctx, `DELETE FROM stock_trx WHERE sku = $1`, sku); err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `DELETE FROM stock WHERE sku = $1`, sku)
	return err
}

// ListTrx returns one page of ledger entries for sku, newest first, plus the
// total entry count.
func (r *StockRepo) ListTrx(ctx context.Context, sku string, page int) ([]model.StockTrx, int, error) {
	const q = `
SELECT t.stock_trx_id, t.sku, t.quantity_varied, t.remark,
       c.user_id AS created_by_user_id,
       c.first_name || ' ' || c.last_name AS created_by_user_name,
       t.created_on
FROM stock_trx AS t
INNER JOIN users AS c ON c.user_id = t.created_by
WHERE t.sku = $1
ORDER BY t.stock_trx_id DESC LIMIT 20 OFFSET $2`
	rows, err := r.db.Pool.Query(ctx, q, sku, (page-1)*repository.PageSize)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var entries []model.StockTrx
	for rows.Next() {
		var t model.StockTrx
		if err := rows.Scan(
			&t.ID, &t.SKU, &t.QuantityVaried, &t.Remark,
			&t.CreatedByUserID, &t.CreatedByUserName, &t.CreatedOn,
		); err != nil {
			return nil, 0, err
		}
		entries = append(entries, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	err = r.db.Pool.QueryRow(ctx,
		`SELECT count(*) FROM stock_trx WHERE sku = $1`, sku).Scan(&total)
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}
