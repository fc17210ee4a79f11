package store

// Catalog queries (read-only from this service's perspective)
const (
	getCategoriesSQL = `
		SELECT id, name FROM categories ORDER BY id`

	getDishesSQL = `
		SELECT d.id, d.name, d.price, d.category_id, c.name
		FROM dishes d
		JOIN categories c ON c.id = d.category_id
		ORDER BY d.id`
)

// Table queries
const (
	getTablesSQL = `
		SELECT id, name, total FROM tables ORDER BY id`

	insertTableSQL = `
		INSERT INTO tables (id, name, total) VALUES ($1, $2, $3)`

	deleteTableSQL = `
		DELETE FROM tables WHERE id = $1`

	addToTableTotalSQL = `
		UPDATE tables SET total = total + $1 WHERE id = $2`

	zeroTableTotalSQL = `
		UPDATE tables SET total = 0 WHERE id = $1`
)

// Order line queries. The upsert and the decrement are single conditional
// statements so a line transition is atomic at the store boundary.
const (
	getOrderLinesSQL = `
		SELECT table_id, dish_id, quantity, version
		FROM order_lines ORDER BY table_id, dish_id`

	upsertLineIncrementSQL = `
		INSERT INTO order_lines (table_id, dish_id, quantity, version)
		VALUES ($1, $2, 1, 1)
		ON CONFLICT (table_id, dish_id) DO UPDATE SET
			quantity = order_lines.quantity + 1,
			version  = order_lines.version + 1
		RETURNING quantity, version`

	decrementLineSQL = `
		UPDATE order_lines
		SET quantity = quantity - 1, version = version + 1
		WHERE table_id = $1 AND dish_id = $2 AND quantity > 1
		RETURNING quantity, version`

	deleteLineSQL = `
		DELETE FROM order_lines WHERE table_id = $1 AND dish_id = $2`

	deleteTableLinesSQL = `
		DELETE FROM order_lines WHERE table_id = $1`
)

// Settled order archive queries
const (
	insertSettledOrderSQL = `
		INSERT INTO orders (total, dishes, settled_at)
		VALUES ($1, $2, NOW())
		RETURNING id, settled_at`

	// An empty date means no filter; NULLIF keeps the cast off the empty
	// string regardless of evaluation order.
	getSettledOrdersSQL = `
		SELECT id, total, dishes, settled_at
		FROM orders
		WHERE settled_at::date = COALESCE(NULLIF($1, '')::date, settled_at::date)
		  AND ($2 = '' OR id::text LIKE '%' || $2 || '%' OR EXISTS (
			SELECT 1 FROM unnest(dishes) AS dish WHERE dish ILIKE '%' || $2 || '%'))
		ORDER BY settled_at DESC`

	getSettledSummarySQL = `
		SELECT COUNT(*), COALESCE(SUM(total), 0)
		FROM orders
		WHERE settled_at::date = NULLIF($1, '')::date`
)

// Staff and session queries
const (
	getStaffByUsernameSQL = `
		SELECT id, password_hash FROM staff WHERE username = $1`

	insertSessionSQL = `
		INSERT INTO sessions (token, staff_id, expires_at) VALUES ($1, $2, $3)`

	getSessionSQL = `
		SELECT expires_at FROM sessions WHERE token = $1`
)
