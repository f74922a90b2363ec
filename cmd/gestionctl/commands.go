package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/jhoicas/gestion-prep/internal/application/dto"
	"github.com/jhoicas/gestion-prep/internal/bootstrap"
	"github.com/jhoicas/gestion-prep/internal/domain"
	"github.com/jhoicas/gestion-prep/internal/infrastructure/pdf"
	"github.com/jhoicas/gestion-prep/internal/infrastructure/postgres"
	"github.com/jhoicas/gestion-prep/pkg/config"
	"github.com/jhoicas/gestion-prep/pkg/jwt"
)

// Commands subcomandos de gestionctl.
type Commands struct {
	Migrate  MigrateCmd  `cmd:"" help:"Aplica las migraciones SQL embebidas."`
	Token    TokenCmd    `cmd:"" help:"Genera un JWT de desarrollo."`
	Validate ValidateCmd `cmd:"" help:"Valida uno o varios BMM por número."`
	Cancel   CancelCmd   `cmd:"" help:"Anula uno o varios BMM en borrador por número."`
	History  HistoryCmd  `cmd:"" help:"Muestra el historial de un BMM."`
	Show     ShowCmd     `cmd:"" help:"Muestra un BMM con sus líneas."`
	LowStock LowStockCmd `cmd:"" name:"low-stock" help:"Lista los artículos en o por debajo de su umbral."`
}

// ── migrate ───────────────────────────────────────────────────────────────────

type MigrateCmd struct{}

func (cmd *MigrateCmd) Run(ctx *kong.Context, g *Globals) error {
	if g.cfg.Store.Driver != config.StoreDriverPostgres {
		return fmt.Errorf("migrate requiere STORE_DRIVER=postgres (actual: %s)", g.cfg.Store.Driver)
	}
	runCtx := context.Background()
	pool, err := postgres.NewPool(runCtx, g.cfg.DB)
	if err != nil {
		return err
	}
	defer pool.Close()

	applied, err := postgres.Migrate(runCtx, pool)
	if err != nil {
		return err
	}
	if len(applied) == 0 {
		printInfof(ctx.Stdout, "esquema al día")
		return nil
	}
	for _, v := range applied {
		printSuccess(ctx.Stdout, "aplicada "+v)
	}
	return nil
}

// ── token ─────────────────────────────────────────────────────────────────────

type TokenCmd struct {
	Subject   string `name:"subject" help:"user_id del token." required:""`
	TokenRole string `name:"token-role" help:"Rol del token." required:"" enum:"admin,magasinier,technicien"`
	Exp       int    `help:"Expiración en minutos (0 usa JWT_EXPIRATION_MINUTES)." default:"0"`
}

func (cmd *TokenCmd) Run(ctx *kong.Context, g *Globals) error {
	return cmd.write(ctx.Stdout, g.cfg.JWT)
}

func (cmd *TokenCmd) write(w io.Writer, cfg config.JWTConfig) error {
	exp := cmd.Exp
	if exp <= 0 {
		exp = cfg.Expiration
	}
	tok, err := jwt.Generate(cfg.Secret, cmd.Subject, cmd.TokenRole, cfg.Issuer, exp)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, tok)
	return err
}

// ── validate / cancel ─────────────────────────────────────────────────────────

type ValidateCmd struct {
	Numbers []string `arg:"" name:"numero" help:"Números BMM (p. ej. BMM12)."`
}

func (cmd *ValidateCmd) Run(ctx *kong.Context, g *Globals) error {
	runCtx := context.Background()
	svc, closeFn, err := g.open(runCtx, false)
	if err != nil {
		return err
	}
	defer closeFn()

	ids, err := resolve(runCtx, svc, cmd.Numbers)
	if err != nil {
		return err
	}
	if len(ids) == 1 {
		out, err := svc.Movement.Validate(runCtx, g.actor(), ids[0])
		if err != nil {
			reportError(ctx.Stderr, cmd.Numbers[0], err)
			return errFailed
		}
		printSuccess(ctx.Stdout, out.Number+" "+statusBadge(out.Status))
		return nil
	}
	res, err := svc.Movement.BulkValidate(runCtx, g.actor(), ids)
	if err != nil {
		return err
	}
	return reportBulk(ctx, res)
}

type CancelCmd struct {
	Numbers []string `arg:"" name:"numero" help:"Números BMM (p. ej. BMM12)."`
}

func (cmd *CancelCmd) Run(ctx *kong.Context, g *Globals) error {
	runCtx := context.Background()
	svc, closeFn, err := g.open(runCtx, false)
	if err != nil {
		return err
	}
	defer closeFn()

	ids, err := resolve(runCtx, svc, cmd.Numbers)
	if err != nil {
		return err
	}
	if len(ids) == 1 {
		out, err := svc.Movement.Cancel(runCtx, g.actor(), ids[0])
		if err != nil {
			reportError(ctx.Stderr, cmd.Numbers[0], err)
			return errFailed
		}
		printSuccess(ctx.Stdout, out.Number+" "+statusBadge(out.Status))
		return nil
	}
	res, err := svc.Movement.BulkCancel(runCtx, g.actor(), ids)
	if err != nil {
		return err
	}
	return reportBulk(ctx, res)
}

var errFailed = errors.New("la operación falló")

func resolve(ctx context.Context, svc *bootstrap.Services, numbers []string) ([]string, error) {
	ids := make([]string, 0, len(numbers))
	for _, n := range numbers {
		m, err := svc.Movement.GetByNumber(ctx, n)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("%s: movimiento no encontrado", n)
			}
			return nil, err
		}
		ids = append(ids, m.ID)
	}
	return ids, nil
}

func reportError(w io.Writer, number string, err error) {
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		printError(w, number+": "+err.Error())
		return
	}
	printError(w, number+": el documento contiene errores")
	writeFields(w, verr.Fields())
}

func writeFields(w io.Writer, fields map[string][]string) {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		for _, msg := range fields[k] {
			printField(w, "  "+k, msg)
		}
	}
}

func reportBulk(ctx *kong.Context, res *dto.BulkResult) error {
	for _, item := range res.Items {
		label := item.Number
		if label == "" {
			label = item.ID
		}
		if item.Success {
			printSuccess(ctx.Stdout, label)
			continue
		}
		printError(ctx.Stderr, label+": "+item.Message)
		writeFields(ctx.Stderr, item.Fields)
	}
	printInfof(ctx.Stdout, "%d correctos, %d con error", res.Succeeded, res.Failed)
	if res.Failed > 0 {
		return errFailed
	}
	return nil
}

// ── history / show ────────────────────────────────────────────────────────────

type HistoryCmd struct {
	Number string `arg:"" name:"numero" help:"Número BMM."`
}

func (cmd *HistoryCmd) Run(ctx *kong.Context, g *Globals) error {
	runCtx := context.Background()
	svc, closeFn, err := g.open(runCtx, false)
	if err != nil {
		return err
	}
	defer closeFn()

	m, err := svc.Movement.GetByNumber(runCtx, cmd.Number)
	if err != nil {
		return err
	}
	entries, err := svc.Movement.History(runCtx, m.ID)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(ctx.Stdout, headerStyle.Render(m.Number)+" "+statusBadge(m.Status))
	for _, e := range entries {
		printField(ctx.Stdout, e.At.Format("2006-01-02 15:04:05"), fmt.Sprintf("%-11s %-14s %s", e.Action, e.UserID, e.Details))
	}
	return nil
}

type ShowCmd struct {
	Number string `arg:"" name:"numero" help:"Número BMM."`
}

func (cmd *ShowCmd) Run(ctx *kong.Context, g *Globals) error {
	runCtx := context.Background()
	svc, closeFn, err := g.open(runCtx, false)
	if err != nil {
		return err
	}
	defer closeFn()

	m, err := svc.Movement.GetByNumber(runCtx, cmd.Number)
	if err != nil {
		return err
	}
	writeMovement(ctx.Stdout, m)
	return nil
}

func writeMovement(w io.Writer, m *dto.MovementResponse) {
	_, _ = fmt.Fprintln(w, headerStyle.Render(m.Number)+" "+statusBadge(m.Status))
	printField(w, "type_mouvement", m.Kind)
	printField(w, "description_bmm", m.Description)
	printField(w, "emetteur_recepteur", m.Counterparty)
	printField(w, "departement_service", m.Department)
	if m.ExpectedReturnDate != nil {
		printField(w, "date_retour_prevue", m.ExpectedReturnDate.Format("2006-01-02"))
	}
	if m.ValidatedAt != nil {
		printField(w, "validé par", m.ValidatedBy+" le "+m.ValidatedAt.Format("2006-01-02 15:04"))
	}
	_, _ = fmt.Fprintln(w)
	for _, l := range m.Lines {
		code := l.ArticleCode
		if code == "" {
			code = l.ArticleID
		}
		snapshot := ""
		if l.StockBefore != nil && l.StockAfter != nil {
			snapshot = fmt.Sprintf("  (%s → %s)", pdf.FormatQuantity(*l.StockBefore), pdf.FormatQuantity(*l.StockAfter))
		}
		printField(w, code, strings.TrimSpace(pdf.FormatQuantity(l.Quantity)+"  "+l.Description)+snapshot)
	}
}

// ── low-stock ─────────────────────────────────────────────────────────────────

type LowStockCmd struct{}

func (cmd *LowStockCmd) Run(ctx *kong.Context, g *Globals) error {
	runCtx := context.Background()
	svc, closeFn, err := g.open(runCtx, false)
	if err != nil {
		return err
	}
	defer closeFn()

	alerts, err := svc.LowStock.LowStock(runCtx)
	if err != nil {
		return err
	}
	writeLowStock(ctx.Stdout, alerts)
	return nil
}

func writeLowStock(w io.Writer, alerts []dto.LowStockAlertDTO) {
	if len(alerts) == 0 {
		printSuccess(w, "ningún artículo bajo su umbral")
		return
	}
	for _, a := range alerts {
		printField(w, fmt.Sprintf("%d. %s", a.Priority, a.Code),
			fmt.Sprintf("%s / seuil %s (déficit %s)  %s",
				pdf.FormatQuantity(a.Quantity), pdf.FormatQuantity(a.AlertThreshold), pdf.FormatQuantity(a.Deficit), a.Description))
	}
}
