// Package repository содержит реализацию доступа к данным в PostgreSQL.
package repository

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/sethvargo/go-retry"
	"github.com/shopspring/decimal"

	"github.com/avasquez/prestamos-system/internal/model"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrTenantExists возвращается при попытке создать уже существующий код тенанта.
var (
	ErrTenantExists = errors.New("tenant code already exists")
	// ErrTenantNotFound возвращается, если код тенанта не найден.
	ErrTenantNotFound = errors.New("tenant code not found")
	// ErrLoanNotFound возвращается, если займ не найден у тенанта.
	ErrLoanNotFound = errors.New("loan not found")
	// ErrPaymentNotFound возвращается, если платёж не найден по займу.
	ErrPaymentNotFound = errors.New("payment not found")
	// ErrMovementNotFound возвращается, если расходная запись не найдена.
	ErrMovementNotFound = errors.New("movement not found")
)

// PostgresRepository предоставляет доступ к хранилищу данных в PostgreSQL.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository создаёт новый репозиторий и инициализирует схему БД через миграции.
func NewPostgresRepository(dsn string) (*PostgresRepository, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pool config: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	r := &PostgresRepository{pool: pool}

	if err := r.runMigrations(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return r, nil
}

func (r *PostgresRepository) runMigrations(ctx context.Context) error {
	db := stdlib.OpenDBFromPool(r.pool)
	defer db.Close()

	goose.SetBaseFS(migrationsFS)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}

// withRetry повторяет операцию при сериализационных сбоях, дедлоках и
// сетевых обрывах; ошибки бизнес-логики отдаются сразу.
func (r *PostgresRepository) withRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	backoff := retry.WithMaxRetries(3, retry.NewFibonacci(500*time.Millisecond))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := fn(ctx)
		if err == nil {
			return nil
		}

		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == pgerrcode.SerializationFailure || pgErr.Code == pgerrcode.DeadlockDetected {
				return retry.RetryableError(err)
			}
		}

		if isConnectionError(err) {
			return retry.RetryableError(err)
		}

		return err
	})
}

func isConnectionError(err error) bool {
	// Упрощённая проверка на ошибки соединения
	return strings.Contains(err.Error(), "connection refused") ||
		strings.Contains(err.Error(), "broken pipe") ||
		strings.Contains(err.Error(), "connection reset by peer")
}

// Close закрывает пул соединений с БД.
func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return d, nil
}

// ---------------------------------------------------------------- tenants

// CreateTenant регистрирует новый код тенанта.
func (r *PostgresRepository) CreateTenant(ctx context.Context, code string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO tenants (code) VALUES ($1)`,
		code,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return fmt.Errorf("%w: %s", ErrTenantExists, code)
		}
		return fmt.Errorf("create tenant: %w", err)
	}
	return nil
}

// GetTenant возвращает код тенанта с его состоянием.
func (r *PostgresRepository) GetTenant(ctx context.Context, code string) (*model.Tenant, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT code, assigned, blocked, created_at FROM tenants WHERE code = $1`,
		code,
	)

	var t model.Tenant
	if err := row.Scan(&t.Code, &t.Assigned, &t.Blocked, &t.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTenantNotFound
		}
		return nil, fmt.Errorf("get tenant: %w", err)
	}

	return &t, nil
}

// ListTenants возвращает все коды тенантов, новые первыми.
func (r *PostgresRepository) ListTenants(ctx context.Context) ([]model.Tenant, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT code, assigned, blocked, created_at FROM tenants ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("select tenants: %w", err)
	}
	defer rows.Close()

	var res []model.Tenant
	for rows.Next() {
		var t model.Tenant
		if err := rows.Scan(&t.Code, &t.Assigned, &t.Blocked, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan tenant: %w", err)
		}
		res = append(res, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return res, nil
}

// MarkTenantAssigned помечает код занятым при первой регистрации кабинета.
func (r *PostgresRepository) MarkTenantAssigned(ctx context.Context, code string) error {
	cmdTag, err := r.pool.Exec(ctx,
		`UPDATE tenants SET assigned = TRUE WHERE code = $1`,
		code,
	)
	if err != nil {
		return fmt.Errorf("mark tenant assigned: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrTenantNotFound
	}
	return nil
}

// SetTenantBlocked блокирует либо разблокирует код тенанта.
func (r *PostgresRepository) SetTenantBlocked(ctx context.Context, code string, blocked bool) error {
	cmdTag, err := r.pool.Exec(ctx,
		`UPDATE tenants SET blocked = $2 WHERE code = $1`,
		code, blocked,
	)
	if err != nil {
		return fmt.Errorf("set tenant blocked: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrTenantNotFound
	}
	return nil
}

// DeleteTenant удаляет код тенанта вместе со всеми его займами, платежами
// и движениями средств (каскад по внешним ключам).
func (r *PostgresRepository) DeleteTenant(ctx context.Context, code string) error {
	cmdTag, err := r.pool.Exec(ctx,
		`DELETE FROM tenants WHERE code = $1`,
		code,
	)
	if err != nil {
		return fmt.Errorf("delete tenant: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrTenantNotFound
	}
	return nil
}

// ---------------------------------------------------------------- loans

const loanColumns = `id, tenant_code, borrower_name, phone, principal::text,
	interest_rate::text, penalty_rate::text, term_units, frequency, start_date,
	method, notes, closed, renewal_of, is_renewal, created_at`

func scanLoan(row pgx.Row) (*model.Loan, error) {
	var (
		l            model.Loan
		principal    string
		interestRate string
		penaltyRate  string
		startDate    *time.Time
		renewalOf    uuid.NullUUID
	)

	err := row.Scan(&l.ID, &l.TenantCode, &l.BorrowerName, &l.Phone, &principal,
		&interestRate, &penaltyRate, &l.TermUnits, &l.Frequency, &startDate,
		&l.Method, &l.Notes, &l.Closed, &renewalOf, &l.IsRenewal, &l.CreatedAt)
	if err != nil {
		return nil, err
	}

	if l.Principal, err = parseAmount(principal); err != nil {
		return nil, err
	}
	if l.InterestRate, err = parseAmount(interestRate); err != nil {
		return nil, err
	}
	if l.PenaltyRate, err = parseAmount(penaltyRate); err != nil {
		return nil, err
	}
	l.StartDate = startDate
	if renewalOf.Valid {
		id := renewalOf.UUID
		l.RenewalOf = &id
	}

	return &l, nil
}

// CreateLoan сохраняет новый займ.
func (r *PostgresRepository) CreateLoan(ctx context.Context, loan *model.Loan) error {
	return r.insertLoan(ctx, r.pool, loan)
}

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func (r *PostgresRepository) insertLoan(ctx context.Context, db execer, loan *model.Loan) error {
	var renewalOf uuid.NullUUID
	if loan.RenewalOf != nil {
		renewalOf = uuid.NullUUID{UUID: *loan.RenewalOf, Valid: true}
	}

	_, err := db.Exec(ctx,
		`INSERT INTO loans (id, tenant_code, borrower_name, phone, principal,
			interest_rate, penalty_rate, term_units, frequency, start_date,
			method, notes, closed, renewal_of, is_renewal, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		loan.ID, loan.TenantCode, loan.BorrowerName, loan.Phone, loan.Principal.String(),
		loan.InterestRate.String(), loan.PenaltyRate.String(), loan.TermUnits,
		string(loan.Frequency), loan.StartDate, string(loan.Method), loan.Notes,
		loan.Closed, renewalOf, loan.IsRenewal, loan.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert loan: %w", err)
	}
	return nil
}

// GetLoan возвращает займ тенанта вместе с платежами в порядке ввода.
func (r *PostgresRepository) GetLoan(ctx context.Context, tenantCode string, id uuid.UUID) (*model.Loan, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+loanColumns+` FROM loans WHERE tenant_code = $1 AND id = $2`,
		tenantCode, id,
	)

	loan, err := scanLoan(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLoanNotFound
		}
		return nil, fmt.Errorf("get loan: %w", err)
	}

	payments, err := r.loanPayments(ctx, []uuid.UUID{loan.ID})
	if err != nil {
		return nil, err
	}
	loan.Payments = payments[loan.ID]

	return loan, nil
}

// ListLoans возвращает все займы тенанта с платежами, новые первыми.
func (r *PostgresRepository) ListLoans(ctx context.Context, tenantCode string) ([]model.Loan, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+loanColumns+` FROM loans WHERE tenant_code = $1 ORDER BY created_at DESC`,
		tenantCode,
	)
	if err != nil {
		return nil, fmt.Errorf("select loans: %w", err)
	}
	defer rows.Close()

	var (
		loans []model.Loan
		ids   []uuid.UUID
	)
	for rows.Next() {
		loan, err := scanLoan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan loan: %w", err)
		}
		loans = append(loans, *loan)
		ids = append(ids, loan.ID)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	payments, err := r.loanPayments(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range loans {
		loans[i].Payments = payments[loans[i].ID]
	}

	return loans, nil
}

// ListOpenLoans возвращает открытые займы всех тенантов; используется
// фоновым оповещателем о просрочках.
func (r *PostgresRepository) ListOpenLoans(ctx context.Context) ([]model.Loan, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+loanColumns+` FROM loans WHERE NOT closed ORDER BY created_at`,
	)
	if err != nil {
		return nil, fmt.Errorf("select open loans: %w", err)
	}
	defer rows.Close()

	var (
		loans []model.Loan
		ids   []uuid.UUID
	)
	for rows.Next() {
		loan, err := scanLoan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan loan: %w", err)
		}
		loans = append(loans, *loan)
		ids = append(ids, loan.ID)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	payments, err := r.loanPayments(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range loans {
		loans[i].Payments = payments[loans[i].ID]
	}

	return loans, nil
}

func (r *PostgresRepository) loanPayments(ctx context.Context, loanIDs []uuid.UUID) (map[uuid.UUID][]model.Payment, error) {
	res := make(map[uuid.UUID][]model.Payment, len(loanIDs))
	if len(loanIDs) == 0 {
		return res, nil
	}

	ids := make([]string, 0, len(loanIDs))
	for _, id := range loanIDs {
		ids = append(ids, id.String())
	}

	rows, err := r.pool.Query(ctx,
		`SELECT loan_id, id, amount::text, recorded_at, movement_id
		 FROM payments
		 WHERE loan_id = ANY($1::uuid[])
		 ORDER BY seq`,
		ids,
	)
	if err != nil {
		return nil, fmt.Errorf("select payments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			loanID     uuid.UUID
			p          model.Payment
			amount     string
			movementID uuid.NullUUID
		)
		if err := rows.Scan(&loanID, &p.ID, &amount, &p.RecordedAt, &movementID); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		if p.Amount, err = parseAmount(amount); err != nil {
			return nil, err
		}
		if movementID.Valid {
			id := movementID.UUID
			p.MovementID = &id
		}
		res[loanID] = append(res[loanID], p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return res, nil
}

// UpdateLoan перезаписывает редактируемые поля займа. Последняя запись
// побеждает: разрешение конкурентных правок хранилищу не поручено.
func (r *PostgresRepository) UpdateLoan(ctx context.Context, loan *model.Loan) error {
	cmdTag, err := r.pool.Exec(ctx,
		`UPDATE loans
		 SET borrower_name = $3, phone = $4, principal = $5, interest_rate = $6,
			 penalty_rate = $7, term_units = $8, frequency = $9, start_date = $10,
			 method = $11, notes = $12
		 WHERE tenant_code = $1 AND id = $2`,
		loan.TenantCode, loan.ID, loan.BorrowerName, loan.Phone, loan.Principal.String(),
		loan.InterestRate.String(), loan.PenaltyRate.String(), loan.TermUnits,
		string(loan.Frequency), loan.StartDate, string(loan.Method), loan.Notes,
	)
	if err != nil {
		return fmt.Errorf("update loan: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrLoanNotFound
	}
	return nil
}

// DeleteLoan удаляет займ тенанта вместе с платежами (каскад).
func (r *PostgresRepository) DeleteLoan(ctx context.Context, tenantCode string, id uuid.UUID) error {
	cmdTag, err := r.pool.Exec(ctx,
		`DELETE FROM loans WHERE tenant_code = $1 AND id = $2`,
		tenantCode, id,
	)
	if err != nil {
		return fmt.Errorf("delete loan: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrLoanNotFound
	}
	return nil
}

// ---------------------------------------------------------------- payments

// AddPayment сохраняет платёж и связанное движение средств одной транзакцией.
func (r *PostgresRepository) AddPayment(ctx context.Context, loanID uuid.UUID, payment model.Payment, movement model.Movement) error {
	return r.withRetry(ctx, func(ctx context.Context) error {
		tx, err := r.pool.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin tx: %w", err)
		}
		defer tx.Rollback(ctx)

		if err := insertMovement(ctx, tx, &movement); err != nil {
			return err
		}

		var movementID uuid.NullUUID
		if payment.MovementID != nil {
			movementID = uuid.NullUUID{UUID: *payment.MovementID, Valid: true}
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO payments (id, loan_id, amount, recorded_at, movement_id)
			 VALUES ($1, $2, $3, $4, $5)`,
			payment.ID, loanID, payment.Amount.String(), payment.RecordedAt, movementID,
		)
		if err != nil {
			return fmt.Errorf("insert payment: %w", err)
		}

		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("commit tx: %w", err)
		}
		return nil
	})
}

// DeletePayment удаляет платёж и связанное с ним движение средств одной
// транзакцией; займам других тенантов операция недоступна.
func (r *PostgresRepository) DeletePayment(ctx context.Context, tenantCode string, loanID, paymentID uuid.UUID) error {
	return r.withRetry(ctx, func(ctx context.Context) error {
		tx, err := r.pool.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin tx: %w", err)
		}
		defer tx.Rollback(ctx)

		var movementID uuid.NullUUID
		err = tx.QueryRow(ctx,
			`DELETE FROM payments p
			 USING loans l
			 WHERE p.id = $1 AND p.loan_id = $2
			   AND l.id = p.loan_id AND l.tenant_code = $3
			 RETURNING p.movement_id`,
			paymentID, loanID, tenantCode,
		).Scan(&movementID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrPaymentNotFound
			}
			return fmt.Errorf("delete payment: %w", err)
		}

		if movementID.Valid {
			if _, err := tx.Exec(ctx, `DELETE FROM movements WHERE id = $1`, movementID.UUID); err != nil {
				return fmt.Errorf("delete linked movement: %w", err)
			}
		}

		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("commit tx: %w", err)
		}
		return nil
	})
}

// ---------------------------------------------------------------- movements

func insertMovement(ctx context.Context, db execer, m *model.Movement) error {
	var loanID uuid.NullUUID
	if m.LoanID != nil {
		loanID = uuid.NullUUID{UUID: *m.LoanID, Valid: true}
	}

	_, err := db.Exec(ctx,
		`INSERT INTO movements (id, tenant_code, kind, amount, loan_id, reason, recorded_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		m.ID, m.TenantCode, string(m.Kind), m.Amount.String(), loanID, m.Reason, m.RecordedAt,
	)
	if err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// RecordMovement сохраняет движение средств (расход или поступление вне займа).
func (r *PostgresRepository) RecordMovement(ctx context.Context, m *model.Movement) error {
	return insertMovement(ctx, r.pool, m)
}

// DeleteMovement удаляет расходную запись тенанта. Поступления по займу
// удаляются только вместе с платежом через DeletePayment, иначе книга
// разойдётся с платежами.
func (r *PostgresRepository) DeleteMovement(ctx context.Context, tenantCode string, id uuid.UUID) error {
	cmdTag, err := r.pool.Exec(ctx,
		`DELETE FROM movements WHERE id = $1 AND tenant_code = $2 AND kind = $3`,
		id, tenantCode, string(model.MovementExpense),
	)
	if err != nil {
		return fmt.Errorf("delete movement: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrMovementNotFound
	}
	return nil
}

// ListMovements возвращает движения средств тенанта, новые первыми.
func (r *PostgresRepository) ListMovements(ctx context.Context, tenantCode string) ([]model.Movement, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, tenant_code, kind, amount::text, loan_id, reason, recorded_at
		 FROM movements
		 WHERE tenant_code = $1
		 ORDER BY recorded_at DESC`,
		tenantCode,
	)
	if err != nil {
		return nil, fmt.Errorf("select movements: %w", err)
	}
	defer rows.Close()

	var res []model.Movement
	for rows.Next() {
		var (
			m      model.Movement
			amount string
			loanID uuid.NullUUID
		)
		if err := rows.Scan(&m.ID, &m.TenantCode, &m.Kind, &amount, &loanID, &m.Reason, &m.RecordedAt); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		if m.Amount, err = parseAmount(amount); err != nil {
			return nil, err
		}
		if loanID.Valid {
			id := loanID.UUID
			m.LoanID = &id
		}
		res = append(res, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return res, nil
}

// ---------------------------------------------------------------- renewal

// RenewLoan применяет пролонгацию одной транзакцией: сперва закрывается
// предшественник, затем вставляется преемник. Порядок обязателен, чтобы
// преемник не стал виден активным раньше закрытия старого займа.
func (r *PostgresRepository) RenewLoan(ctx context.Context, closed, successor *model.Loan) error {
	return r.withRetry(ctx, func(ctx context.Context) error {
		tx, err := r.pool.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin tx: %w", err)
		}
		defer tx.Rollback(ctx)

		cmdTag, err := tx.Exec(ctx,
			`UPDATE loans SET closed = TRUE, notes = $3
			 WHERE tenant_code = $1 AND id = $2 AND NOT closed`,
			closed.TenantCode, closed.ID, closed.Notes,
		)
		if err != nil {
			return fmt.Errorf("close loan: %w", err)
		}
		if cmdTag.RowsAffected() == 0 {
			return ErrLoanNotFound
		}

		if err := r.insertLoan(ctx, tx, successor); err != nil {
			return err
		}

		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("commit tx: %w", err)
		}
		return nil
	})
}
