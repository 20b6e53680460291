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

// ProductRepo implements ProductRepository using PostgreSQL.
type ProductRepo struct{ db *DB }

// NewProductRepo constructs a product repository.
func NewProductRepo(db *DB) *ProductRepo { return &ProductRepo{db: db} }

const productColumns = `
SELECT p.product_id, p.name, p.category, p.product_price, p.product_pic, p.status,
       c.user_id AS created_by_user_id,
       c.first_name || ' ' || c.last_name AS created_by_user_name,
       p.created_on `

const productJoin = `FROM products AS p INNER JOIN users AS c ON c.user_id = p.created_by `

// List returns one page of products matching f plus the total match count.
func (r *ProductRepo) List(ctx context.Context, f repository.ProductFilter, page int) ([]model.Product, int, error) {
	q := sqlbuild.NewQuery()
	q.AppendSelect(productColumns)
	q.AppendFrom(productJoin)

	if f.Name != "" {
		q.AppendWhere("p.name LIKE ? ")
		q.BindWhere(sqlbuild.Text(f.Name + "%"))
	}
	if f.Category != "" {
		q.AppendWhere("p.category = ? ")
		q.BindWhere(sqlbuild.Text(f.Category))
	}
	if f.Status != "" {
		q.AppendWhere("p.status = ? ")
		q.BindWhere(sqlbuild.Text(f.Status))
	}

	q.AppendTail("ORDER BY p.product_id DESC LIMIT 20 OFFSET ? ")
	q.BindTail(sqlbuild.Int(int64((page - 1) * repository.PageSize)))

	sql, args := q.Build()
	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		products = append(products, p)
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
	return products, total, nil
}

func scanProduct(row pgx.Row) (model.Product, error) {
	var (
		p     model.Product
		minor int64
	)
	err := row.Scan(
		&p.ID, &p.Name, &p.Category, &minor, &p.Pic, &p.Status,
		&p.CreatedByUserID, &p.CreatedByUserName, &p.CreatedOn,
	)
	if err != nil {
		return model.Product{}, err
	}
	p.Price = model.PriceFromMinorUnits(minor)
	return p, nil
}

// GetByID selects a product by id.
func (r *ProductRepo) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	row := r.db.Pool.QueryRow(ctx, productColumns+productJoin+`WHERE p.product_id = $1`, id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Create inserts a new product row and returns the generated id.
func (r *ProductRepo) Create(ctx context.Context, p repository.NewProduct) (int64, error) {
	const q = `
INSERT INTO products (name, category, product_price, product_pic, status, created_by, created_on)
VALUES ($1, $2, $3, $4, $5, $6, now())
RETURNING product_id`
	var id int64
	err := r.db.Pool.QueryRow(ctx, q,
		p.Name, p.Category, p.PriceMinor, p.Pic, p.Status, p.CreatedBy,
	).Scan(&id)
	if isUniqueViolation(err) {
		return 0, errs.ErrAlreadyExists
	}
	return id, err
}

// Update rewrites a product row. The picture is written only when provided.
func (r *ProductRepo) Update(ctx context.Context, p repository.ProductUpdate) error {
	b := sqlbuild.NewUpdate()
	b.AppendUpdate("UPDATE products ")

	b.AppendSet("name = ? ")
	b.BindSet(sqlbuild.Text(p.Name))
	b.AppendSet("category = ? ")
	b.BindSet(sqlbuild.Text(p.Category))
	b.AppendSet("product_price = ? ")
	b.BindSet(sqlbuild.Int(p.PriceMinor))

	if len(p.Pic) != 0 {
		b.AppendSet("product_pic = ? ")
		b.BindSet(sqlbuild.Binary(p.Pic))
	}

	b.AppendSet("status = ? ")
	b.BindSet(sqlbuild.Text(p.Status))

	b.AppendWhere("product_id = ? ")
	b.BindWhere(sqlbuild.Int(p.ID))

	sql, args := b.Build()
	tag, err := r.db.Pool.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// Delete removes a product row.
func (r *ProductRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM products WHERE product_id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// Exists reports whether a product row exists.
func (r *ProductRepo) Exists(ctx context.Context, id int64) (bool, error) {
	var ok bool
	err := r.db.Pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM products WHERE product_id = $1)`, id).Scan(&ok)
	return ok, err
}

// NameTaken reports whether another product already holds name.
func (r *ProductRepo) NameTaken(ctx context.Context, name string, excludeID int64) (bool, error) {
	var ok bool
	err := r.db.Pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM products WHERE name = $1 AND product_id <> $2)`,
		name, excludeID).Scan(&ok)
	return ok, err
}

// HasStock reports whether any stock lot references the product.
func (r *ProductRepo) HasStock(ctx context.Context, id int64) (bool, error) {
	var ok bool
	err := r.db.Pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM stock WHERE product_id = $1)`, id).Scan(&ok)
	return ok, err
}
