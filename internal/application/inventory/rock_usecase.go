package inventory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/rochas-api/internal/application/dto"
	"github.com/jhoicas/rochas-api/internal/application/ports"
	"github.com/jhoicas/rochas-api/internal/domain"
	"github.com/jhoicas/rochas-api/internal/domain/access"
	"github.com/jhoicas/rochas-api/internal/domain/entity"
	"github.com/jhoicas/rochas-api/internal/domain/repository"
	"github.com/jhoicas/rochas-api/internal/domain/stock"
	"github.com/jhoicas/rochas-api/pkg/logger"
	"github.com/jhoicas/rochas-api/pkg/textnorm"
)

// Notas de los movimientos generados por el alta.
const (
	NoteInitialEntry    = "Entrada inicial"
	NoteAdditionalEntry = "Entrada adicional pelo cadastro"
)

// RockUseCase alta, consulta y baja de rocas.
type RockUseCase struct {
	txRunner     ports.TxRunner
	repos        repository.Registry
	photos       ports.PhotoStorage // nil = fotos deshabilitadas
	log          *logger.Logger
	writeTimeout time.Duration
	clock        func() time.Time
}

// NewRockUseCase construye el caso de uso. photos puede ser nil.
func NewRockUseCase(txRunner ports.TxRunner, repos repository.Registry, photos ports.PhotoStorage, log *logger.Logger, writeTimeout time.Duration) *RockUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &RockUseCase{
		txRunner:     txRunner,
		repos:        repos,
		photos:       photos,
		log:          log,
		writeTimeout: writeTimeout,
		clock:        func() time.Time { return time.Now().UTC() },
	}
}

// DuplicateQuery clave de búsqueda. Type y Finish vacíos no filtran.
type DuplicateQuery struct {
	CompanyID string
	Name      string
	Type      string
	Finish    string
}

// FindDuplicates devuelve las rocas de la empresa que coinciden exactamente con la clave
// normalizada. Un fallo del almacén se devuelve como ErrBackendUnavailable, nunca como
// "sin duplicados".
func (uc *RockUseCase) FindDuplicates(ctx context.Context, sess access.Session, q DuplicateQuery) ([]*entity.Rock, error) {
	companyID, err := sess.Capability.EffectiveCompany(q.CompanyID)
	if err != nil {
		return nil, err
	}
	filter := repository.RockFilter{
		CompanyID: companyID,
		Name:      textnorm.Key(q.Name),
		Type:      textnorm.Key(q.Type),
		Finish:    textnorm.Key(q.Finish),
	}
	if filter.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	matches, err := uc.repos.Rocks().Find(ctx, filter)
	if err != nil {
		return nil, ports.StoreError(err)
	}
	return matches, nil
}

// CheckDuplicates FindDuplicates con la forma de respuesta HTTP.
func (uc *RockUseCase) CheckDuplicates(ctx context.Context, sess access.Session, q DuplicateQuery) (*dto.DuplicateCheckResponse, error) {
	matches, err := uc.FindDuplicates(ctx, sess, q)
	if err != nil {
		return nil, err
	}
	out := &dto.DuplicateCheckResponse{Exists: len(matches) > 0, Matches: make([]dto.RockResponse, 0, len(matches))}
	for _, m := range matches {
		out.Matches = append(out.Matches, toRockResponse(m))
	}
	return out, nil
}

// CreateRockInput datos de una roca nueva.
type CreateRockInput struct {
	CompanyID string
	Name      string
	Type      string
	Finish    string
	PhotoURL  string
}

// CreateRock crea la roca con campos normalizados; no crea saldo ni movimientos y no
// consulta duplicados: la colisión de clave la rechaza el almacén (ErrDuplicateItem).
func (uc *RockUseCase) CreateRock(ctx context.Context, sess access.Session, in CreateRockInput) (*entity.Rock, error) {
	companyID, err := sess.Capability.EffectiveCompany(in.CompanyID)
	if err != nil {
		return nil, err
	}
	in.CompanyID = companyID

	wctx, cancel := detach(ctx, uc.writeTimeout)
	defer cancel()

	var rock *entity.Rock
	err = uc.txRunner.Run(wctx, func(tx repository.Registry) error {
		var err error
		rock, err = uc.insertRock(wctx, tx, in)
		return err
	})
	if err != nil {
		return nil, ports.StoreError(err)
	}
	return rock, nil
}

func (uc *RockUseCase) insertRock(ctx context.Context, tx repository.Registry, in CreateRockInput) (*entity.Rock, error) {
	name := textnorm.Key(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	company, err := tx.Companies().GetByID(ctx, in.CompanyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	rock := &entity.Rock{
		ID:        RockID(in.CompanyID, name),
		CompanyID: in.CompanyID,
		Name:      name,
		Type:      textnorm.Key(in.Type),
		Finish:    textnorm.Key(in.Finish),
		PhotoURL:  in.PhotoURL,
		CreatedAt: uc.clock(),
	}
	if err := tx.Rocks().Create(ctx, rock); err != nil {
		return nil, err
	}
	return rock, nil
}

// PhotoUpload foto adjunta al alta.
type PhotoUpload struct {
	FileName    string
	ContentType string
	Body        io.Reader
}

// RegisterRockInput flujo completo del formulario de alta.
type RegisterRockInput struct {
	CompanyID       string
	Name            string
	Type            string
	Finish          string
	InitialQuantity string // vacío o "0" = sin entrada inicial
	UseExistingID   string
	Photo           *PhotoUpload
}

// RegisterRock: comprueba duplicados, sube la foto (best-effort), crea la roca o reutiliza
// la existente elegida y registra la entrada inicial, todo lo persistente en una transacción.
func (uc *RockUseCase) RegisterRock(ctx context.Context, sess access.Session, in RegisterRockInput) (*dto.RegisterRockResponse, error) {
	companyID, err := sess.Capability.EffectiveCompany(in.CompanyID)
	if err != nil {
		return nil, err
	}
	name := textnorm.Key(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	initial, err := parseInitialQuantity(in.InitialQuantity)
	if err != nil {
		return nil, err
	}

	matches, err := uc.FindDuplicates(ctx, sess, DuplicateQuery{CompanyID: companyID, Name: name})
	if err != nil {
		return nil, err
	}
	if len(matches) > 0 && in.UseExistingID == "" {
		return nil, domain.ErrDuplicateItem
	}
	if in.UseExistingID != "" && !containsRock(matches, in.UseExistingID) {
		return nil, domain.ErrInvalidInput
	}

	var warnings []string
	photoURL := ""
	if in.UseExistingID != "" && in.Photo != nil {
		uc.log.Warn().Str("rock_id", in.UseExistingID).Str("file", in.Photo.FileName).Msg("foto ignorada al reutilizar una roca existente")
		warnings = append(warnings, "la foto se ignora al reutilizar una roca existente")
	}
	if in.UseExistingID == "" && in.Photo != nil {
		url, err := uc.uploadPhoto(ctx, in.Photo)
		if err != nil {
			uc.log.Warn().Err(err).Str("company_id", companyID).Str("rock", name).Msg("subida de foto fallida, se registra sin foto")
			warnings = append(warnings, "no se pudo subir la foto; la roca se registró sin foto")
		} else {
			photoURL = url
		}
	}

	wctx, cancel := detach(ctx, uc.writeTimeout)
	defer cancel()

	var (
		rock    *entity.Rock
		mov     *entity.StockMovement
		balance = decimal.Zero
		created = in.UseExistingID == ""
	)
	err = uc.txRunner.Run(wctx, func(tx repository.Registry) error {
		var err error
		note := NoteInitialEntry
		if created {
			rock, err = uc.insertRock(wctx, tx, CreateRockInput{
				CompanyID: companyID, Name: name, Type: in.Type, Finish: in.Finish, PhotoURL: photoURL,
			})
			if err != nil {
				return err
			}
		} else {
			note = NoteAdditionalEntry
			rock, err = tx.Rocks().GetForUpdate(wctx, in.UseExistingID)
			if err != nil {
				return err
			}
			if rock == nil {
				return domain.ErrNotFound
			}
		}
		if initial.IsPositive() {
			mov, err = appendMovement(wctx, tx, rock.ID, sess.UserID, entity.MovementEntrada, initial, note)
			if err != nil {
				return err
			}
			balance = mov.BalanceAfter
			return nil
		}
		bal, err := tx.Balances().Get(wctx, rock.ID)
		if err != nil {
			return err
		}
		if bal != nil {
			balance = bal.Quantity
		}
		return nil
	})
	if err != nil {
		if photoURL != "" {
			uc.log.Warn().Err(err).Str("photo_url", photoURL).Str("company_id", companyID).Str("rock", name).
				Msg("foto huérfana: la roca no se registró")
		}
		return nil, ports.StoreError(err)
	}

	uc.log.Info().
		Str("rock_id", rock.ID).Str("company_id", companyID).Bool("created", created).
		Str("initial", initial.String()).
		Msg("roca registrada")

	resp := &dto.RegisterRockResponse{
		Rock:     toRockResponse(rock),
		Created:  created,
		Balance:  balance,
		Warnings: warnings,
	}
	if mov != nil {
		m := toMovementResponse(mov)
		resp.Movement = &m
	}
	return resp, nil
}

func (uc *RockUseCase) uploadPhoto(ctx context.Context, p *PhotoUpload) (string, error) {
	if uc.photos == nil {
		return "", errors.New("almacenamiento de fotos no configurado")
	}
	safe := textnorm.SafeFileName(p.FileName)
	if safe == "" {
		safe = "foto"
	}
	object := fmt.Sprintf("rochas/%d_%s", uc.clock().UnixMilli(), safe)
	return uc.photos.Upload(ctx, object, p.ContentType, p.Body)
}

// GetRock devuelve una roca visible para la sesión.
func (uc *RockUseCase) GetRock(ctx context.Context, sess access.Session, id string) (*dto.RockResponse, error) {
	rock, err := uc.repos.Rocks().GetByID(ctx, id)
	if err != nil {
		return nil, ports.StoreError(err)
	}
	if rock == nil {
		return nil, domain.ErrNotFound
	}
	if !sess.Capability.CanAccess(rock.CompanyID) {
		return nil, domain.ErrForbidden
	}
	resp := toRockResponse(rock)
	return &resp, nil
}

// DeleteRock (sólo admin) elimina la roca junto con su saldo y su kardex en una transacción.
func (uc *RockUseCase) DeleteRock(ctx context.Context, sess access.Session, id string) error {
	if !sess.Capability.IsAdmin() {
		return domain.ErrForbidden
	}
	wctx, cancel := detach(ctx, uc.writeTimeout)
	defer cancel()

	err := uc.txRunner.Run(wctx, func(tx repository.Registry) error {
		rock, err := tx.Rocks().GetForUpdate(wctx, id)
		if err != nil {
			return err
		}
		if rock == nil {
			return domain.ErrNotFound
		}
		if err := tx.Movements().DeleteByRock(wctx, id); err != nil {
			return err
		}
		if err := tx.Balances().Delete(wctx, id); err != nil {
			return err
		}
		return tx.Rocks().Delete(wctx, id)
	})
	if err != nil {
		return ports.StoreError(err)
	}
	uc.log.Info().Str("rock_id", id).Str("actor_id", sess.UserID).Msg("roca eliminada con su kardex")
	return nil
}

func parseInitialQuantity(raw string) (decimal.Decimal, error) {
	raw = stock.NormalizeDecimal(raw)
	if raw == "" {
		return decimal.Zero, nil
	}
	// Cero ("0", "0,0") significa "sin entrada inicial"; negativos y texto no numérico son error.
	if z, err := decimal.NewFromString(raw); err == nil && z.IsZero() {
		return decimal.Zero, nil
	}
	return stock.ParseQuantity(raw)
}

func containsRock(list []*entity.Rock, id string) bool {
	for _, r := range list {
		if r.ID == id {
			return true
		}
	}
	return false
}
