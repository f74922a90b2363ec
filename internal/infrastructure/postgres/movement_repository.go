package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/gestion-prep/internal/domain"
	"github.com/jhoicas/gestion-prep/internal/domain/entity"
	"github.com/jhoicas/gestion-prep/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// numberingLockKey clave del advisory lock que serializa la asignación de numero_bmm.
const numberingLockKey = "mouvements.numero_bmm"

const movementColumns = `m.id, m.numero_bmm, COALESCE(m.type_mouvement, ''), m.statut, m.description_bmm,
	m.emetteur_recepteur, m.departement_service, m.date_retour_prevue, m.date_retour_effective,
	COALESCE(m.equipement_id, ''), m.remarque, m.created_by, m.date_creation,
	COALESCE(m.validated_by, ''), m.date_validation`

// MovementRepo implementación del puerto MovementRepository sobre PostgreSQL.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

func scanMovement(row pgx.Row, withCount bool) (*entity.Movement, error) {
	var m entity.Movement
	dest := []any{
		&m.ID, &m.Number, &m.Kind, &m.Status, &m.Description,
		&m.Counterparty, &m.Department, &m.ExpectedReturnDate, &m.ActualReturnDate,
		&m.EquipmentID, &m.Remark, &m.CreatedBy, &m.CreatedAt,
		&m.ValidatedBy, &m.ValidatedAt,
	}
	if withCount {
		dest = append(dest, &m.LineCount)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &m, nil
}

// Create persiste un BMM nuevo.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	query := `
		INSERT INTO mouvements (id, numero_bmm, type_mouvement, statut, description_bmm, emetteur_recepteur,
			departement_service, date_retour_prevue, date_retour_effective, equipement_id, remarque,
			created_by, date_creation, validated_by, date_validation)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, $8, $9, NULLIF($10, ''), $11, $12, $13, NULLIF($14, ''), $15)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.Number, m.Kind, m.Status, m.Description, m.Counterparty,
		m.Department, m.ExpectedReturnDate, m.ActualReturnDate, m.EquipmentID, m.Remark,
		m.CreatedBy, m.CreatedAt, m.ValidatedBy, m.ValidatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// GetByID obtiene un BMM con nombre_articles.
func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.Movement, error) {
	query := `
		SELECT ` + movementColumns + `,
			(SELECT count(*) FROM lignes_mouvement l WHERE l.mouvement_id = m.id)
		FROM mouvements m WHERE m.id = $1`
	m, err := scanMovement(r.q.QueryRow(ctx, query, id), true)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// GetByNumber obtiene un BMM por numero_bmm.
func (r *MovementRepo) GetByNumber(ctx context.Context, number string) (*entity.Movement, error) {
	query := `
		SELECT ` + movementColumns + `,
			(SELECT count(*) FROM lignes_mouvement l WHERE l.mouvement_id = m.id)
		FROM mouvements m WHERE m.numero_bmm = $1`
	m, err := scanMovement(r.q.QueryRow(ctx, query, number), true)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement by number: %w", err)
	}
	return m, nil
}

// GetForUpdate bloquea la fila del documento (SELECT ... FOR UPDATE).
func (r *MovementRepo) GetForUpdate(ctx context.Context, id string) (*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM mouvements m WHERE m.id = $1 FOR UPDATE`
	m, err := scanMovement(r.q.QueryRow(ctx, query, id), false)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		if isLockTimeout(err) {
			return nil, fmt.Errorf("lock movement %s: lock_timeout: %w", id, err)
		}
		return nil, fmt.Errorf("get movement for update: %w", err)
	}
	return m, nil
}

// Update persiste los campos mutables. numero_bmm, created_by y date_creation no cambian.
func (r *MovementRepo) Update(ctx context.Context, m *entity.Movement) error {
	query := `
		UPDATE mouvements SET type_mouvement = NULLIF($2, ''), statut = $3, description_bmm = $4,
			emetteur_recepteur = $5, departement_service = $6, date_retour_prevue = $7,
			date_retour_effective = $8, equipement_id = NULLIF($9, ''), remarque = $10,
			validated_by = NULLIF($11, ''), date_validation = $12
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		m.ID, m.Kind, m.Status, m.Description,
		m.Counterparty, m.Department, m.ExpectedReturnDate,
		m.ActualReturnDate, m.EquipmentID, m.Remark,
		m.ValidatedBy, m.ValidatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update movement: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina el BMM; líneas e historial caen por ON DELETE CASCADE.
func (r *MovementRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM mouvements WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete movement: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista BMM del más reciente al más antiguo.
func (r *MovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.Movement, error) {
	query := `
		SELECT ` + movementColumns + `, count(l.id)
		FROM mouvements m
		LEFT JOIN lignes_mouvement l ON l.mouvement_id = m.id
		WHERE ($1::text = '' OR m.statut = $1) AND ($2::text = '' OR m.type_mouvement = $2)
		GROUP BY m.id
		ORDER BY m.date_creation DESC, length(m.numero_bmm) DESC, m.numero_bmm DESC
		LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, f.Status, f.Kind, limitOrAll(f.Limit), f.Offset)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var out []*entity.Movement
	for rows.Next() {
		m, err := scanMovement(rows, true)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// LockNumbering toma un advisory lock de transacción: la numeración concurrente espera
// hasta el Commit/Rollback de quien lo tiene.
func (r *MovementRepo) LockNumbering(ctx context.Context) error {
	if _, err := r.q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, numberingLockKey); err != nil {
		return fmt.Errorf("lock numbering: %w", err)
	}
	return nil
}

// LastNumber devuelve el numero_bmm más alto con el prefijo, por valor numérico (BMM10 > BMM9).
func (r *MovementRepo) LastNumber(ctx context.Context, prefix string) (string, error) {
	query := `
		SELECT numero_bmm FROM mouvements
		WHERE starts_with(numero_bmm, $1)
		ORDER BY length(numero_bmm) DESC, numero_bmm DESC
		LIMIT 1`
	var last string
	err := r.q.QueryRow(ctx, query, prefix).Scan(&last)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("last movement number: %w", err)
	}
	return last, nil
}
