package reservations

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/angelmondragon/bistro-backend/pkg/db"
	"github.com/angelmondragon/bistro-backend/pkg/db/models"
	"github.com/angelmondragon/bistro-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/bistro-backend/pkg/errors"
	"github.com/angelmondragon/bistro-backend/pkg/metrics"
	"github.com/angelmondragon/bistro-backend/pkg/pagination"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service books tables and manages existing reservations.
type Service interface {
	Tables() []Table
	Slots() []string
	Create(ctx context.Context, input CreateInput) (*ReservationDTO, error)
	Mine(ctx context.Context, userID uuid.UUID) ([]ReservationDTO, error)
	Cancel(ctx context.Context, userID, id uuid.UUID) (*ReservationDTO, error)

	List(ctx context.Context, filters ListFilters) (*ListResult, error)
	Get(ctx context.Context, id uuid.UUID) (*ReservationDTO, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.ReservationStatus) (*ReservationDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo     *Repository
	tx       txRunner
	fee      decimal.Decimal
	metrics  *metrics.OrderMetrics
	validate *validator.Validate
	now      func() time.Time
}

// NewService wires the reservation service with the flat booking fee.
func NewService(repo *Repository, tx txRunner, fee decimal.Decimal, m *metrics.OrderMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("reservations repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if fee.IsNegative() {
		return nil, fmt.Errorf("reservation fee must not be negative")
	}
	return &service{repo: repo, tx: tx, fee: fee, metrics: m, validate: validator.New(), now: time.Now}, nil
}

func (s *service) Tables() []Table  { return Tables() }
func (s *service) Slots() []string { return Slots() }

func (s *service) today() string {
	return s.now().Format(DateLayout)
}

func (s *service) checkInput(input *CreateInput) (Table, error) {
	input.GuestName = strings.TrimSpace(input.GuestName)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.Phone = strings.TrimSpace(input.Phone)
	input.Date = strings.TrimSpace(input.Date)
	input.Time = strings.TrimSpace(input.Time)
	input.SpecialRequests = strings.TrimSpace(input.SpecialRequests)

	if err := s.validate.Struct(input); err != nil {
		return Table{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid reservation")
	}
	table, ok := TableByNumber(input.TableNumber)
	if !ok {
		return Table{}, pkgerrors.New(pkgerrors.CodeNotFound, "table not found")
	}
	if !table.IsAvailable {
		return Table{}, pkgerrors.New(pkgerrors.CodeStateConflict, "table is not available for booking")
	}
	if input.Guests > table.Seats {
		return Table{}, pkgerrors.Newf(pkgerrors.CodeValidation, "table %d seats at most %d guests", table.Number, table.Seats)
	}
	day, err := time.Parse(DateLayout, input.Date)
	if err != nil {
		return Table{}, pkgerrors.New(pkgerrors.CodeValidation, "date must be YYYY-MM-DD")
	}
	input.Date = day.Format(DateLayout)
	if input.Date < s.today() {
		return Table{}, pkgerrors.New(pkgerrors.CodeValidation, "date cannot be in the past")
	}
	if !isSlot(input.Time) {
		return Table{}, pkgerrors.New(pkgerrors.CodeValidation, "time must be one of the reservation slots").
			WithDetails(map[string]any{"slots": Slots()})
	}
	return table, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*ReservationDTO, error) {
	table, err := s.checkInput(&input)
	if err != nil {
		return nil, err
	}

	record := &models.Reservation{
		UserID:          input.UserID,
		TableNumber:     table.Number,
		GuestName:       input.GuestName,
		Email:           input.Email,
		Phone:           input.Phone,
		Guests:          input.Guests,
		Date:            input.Date,
		Time:            input.Time,
		SpecialRequests: input.SpecialRequests,
		Fee:             s.fee,
		Status:          enums.ReservationStatusPending,
	}
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		taken, err := repo.SlotTaken(ctx, record.TableNumber, record.Date, record.Time)
		if err != nil {
			return err
		}
		if taken {
			return errSlotTaken
		}
		return repo.Create(ctx, record)
	})
	if err != nil {
		if errors.Is(err, errSlotTaken) || db.IsUniqueViolation(err, "") {
			return nil, slotConflict(record)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store reservation")
	}
	s.metrics.IncReservation(strconv.Itoa(record.TableNumber))
	dto := toDTO(*record)
	return &dto, nil
}

var errSlotTaken = errors.New("slot taken")

func slotConflict(r *models.Reservation) error {
	return pkgerrors.New(pkgerrors.CodeConflict, "table is already booked for this time").WithDetails(map[string]any{
		"table_number": r.TableNumber,
		"date":         r.Date,
		"time":         r.Time,
	})
}

func (s *service) Mine(ctx context.Context, userID uuid.UUID) ([]ReservationDTO, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reservations")
	}
	out := make([]ReservationDTO, len(rows))
	for i, row := range rows {
		out[i] = toDTO(row)
	}
	return out, nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Reservation, error) {
	res, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "reservation not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load reservation")
	}
	return res, nil
}

// Cancel lets the owner withdraw a reservation that still holds its slot.
func (s *service) Cancel(ctx context.Context, userID, id uuid.UUID) (*ReservationDTO, error) {
	res, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if res.UserID == nil || *res.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "reservation belongs to another user")
	}
	if !res.Status.Holds() {
		return nil, pkgerrors.Newf(pkgerrors.CodeStateConflict, "reservation is already %s", res.Status)
	}
	if err := s.repo.UpdateStatus(ctx, id, enums.ReservationStatusCancelled); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel reservation")
	}
	res.Status = enums.ReservationStatusCancelled
	dto := toDTO(*res)
	return &dto, nil
}

func (s *service) List(ctx context.Context, filters ListFilters) (*ListResult, error) {
	filters.Page = filters.Page.Normalize()
	rows, total, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reservations")
	}
	out := make([]ReservationDTO, len(rows))
	for i, row := range rows {
		out[i] = toDTO(row)
	}
	return &ListResult{Reservations: out, Meta: pagination.NewMeta(filters.Page, total)}, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ReservationDTO, error) {
	res, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toDTO(*res)
	return &dto, nil
}

func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.ReservationStatus) (*ReservationDTO, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid reservation status")
	}
	res, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if res.Status == status {
		dto := toDTO(*res)
		return &dto, nil
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, slotConflict(res)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update reservation")
	}
	res.Status = status
	dto := toDTO(*res)
	return &dto, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete reservation")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "reservation not found")
	}
	return nil
}
