// internal/api/tournaments/handlers.go
package tournaments

import (
	"context"
	"errors"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/nyaruka/phonenumbers"
	"github.com/rs/zerolog/log"

	"github.com/codr1/clubhouse/internal/api/apiutil"
	appdb "github.com/codr1/clubhouse/internal/db"
	dbgen "github.com/codr1/clubhouse/internal/db/generated"
	"github.com/codr1/clubhouse/internal/tournaments"
)

const (
	tournamentQueryTimeout = 5 * time.Second
	tournamentIDPathKey    = "id"
	matchIDPathKey         = "id"
	maxNamesPerEntry       = 2
)

var (
	database *appdb.DB
	settings Settings
)

// Settings carries the configured defaults the handlers apply.
type Settings struct {
	DefaultByePolicy tournaments.ByePolicy
	PhoneRegion      string
}

type tournamentRequest struct {
	Name       string `json:"name"`
	Format     string `json:"format"`
	GroupCount *int64 `json:"groupCount"`
	ByePolicy  string `json:"byePolicy"`
	StartDate  string `json:"startDate"`
}

type tournamentResponse struct {
	ID         int64                 `json:"id"`
	Name       string                `json:"name"`
	Format     tournaments.Format    `json:"format"`
	GroupCount int64                 `json:"groupCount"`
	ByePolicy  tournaments.ByePolicy `json:"byePolicy"`
	StartDate  *time.Time            `json:"startDate,omitempty"`
	CreatedAt  time.Time             `json:"createdAt"`
}

type participantRequest struct {
	Names []string `json:"names"`
	Group int64    `json:"group"`
	Seed  int64    `json:"seed"`
	Email string   `json:"email"`
	Phone string   `json:"phone"`
}

type participantResponse struct {
	tournaments.Participant
	TournamentID int64  `json:"tournamentId"`
	DisplayName  string `json:"displayName"`
}

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(db *appdb.DB, s Settings) {
	if db == nil {
		return
	}
	database = db
	if s.DefaultByePolicy == "" {
		s.DefaultByePolicy = tournaments.ByePolicyConfirm
	}
	if s.PhoneRegion == "" {
		s.PhoneRegion = "US"
	}
	settings = s
}

// RegisterRoutes wires the tournament API onto mux.
func RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/tournaments", HandleCreateTournament)
	mux.HandleFunc("GET /api/v1/tournaments", HandleListTournaments)
	mux.HandleFunc("GET /api/v1/tournaments/{id}", HandleGetTournament)
	mux.HandleFunc("POST /api/v1/tournaments/{id}/participants", HandleCreateParticipant)
	mux.HandleFunc("GET /api/v1/tournaments/{id}/participants", HandleListParticipants)
	mux.HandleFunc("POST /api/v1/tournaments/{id}/schedule", HandleGenerateSchedule)
	mux.HandleFunc("POST /api/v1/tournaments/{id}/knockout", HandleGenerateKnockout)
	mux.HandleFunc("GET /api/v1/tournaments/{id}/matches", HandleListMatches)
	mux.HandleFunc("GET /api/v1/tournaments/{id}/standings", HandleStandings)
	mux.HandleFunc("POST /api/v1/matches/{id}/result", HandleRecordResult)
	mux.HandleFunc("POST /api/v1/matches/{id}/bye", HandleConfirmBye)
	mux.HandleFunc("PUT /api/v1/matches/{id}/schedule", HandleScheduleMatch)
}

func loadDB() *appdb.DB {
	return database
}

// POST /api/v1/tournaments
func HandleCreateTournament(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	db := loadDB()
	if db == nil {
		writeNotInitialized(w, r)
		return
	}

	var req tournamentRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusBadRequest, Message: "Invalid JSON body", Err: err})
		return
	}
	params, err := buildTournamentParams(req)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), tournamentQueryTimeout)
	defer cancel()

	created, err := db.Queries.CreateTournament(ctx, params)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	logger.Info().Int64("tournament_id", created.ID).Str("format", created.Format).Msg("Tournament created")
	writeJSON(w, r, http.StatusCreated, newTournamentResponse(created))
}

// GET /api/v1/tournaments
func HandleListTournaments(w http.ResponseWriter, r *http.Request) {
	db := loadDB()
	if db == nil {
		writeNotInitialized(w, r)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), tournamentQueryTimeout)
	defer cancel()

	rows, err := db.Queries.ListTournaments(ctx)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	resp := make([]tournamentResponse, 0, len(rows))
	for _, row := range rows {
		resp = append(resp, newTournamentResponse(row))
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"tournaments": resp})
}

// GET /api/v1/tournaments/{id}
func HandleGetTournament(w http.ResponseWriter, r *http.Request) {
	db := loadDB()
	if db == nil {
		writeNotInitialized(w, r)
		return
	}

	tournamentID, err := apiutil.PathID(r, tournamentIDPathKey)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), tournamentQueryTimeout)
	defer cancel()

	tournament, err := loadTournament(ctx, db.Queries, tournamentID)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, newTournamentResponse(tournament))
}

// POST /api/v1/tournaments/{id}/participants
func HandleCreateParticipant(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	db := loadDB()
	if db == nil {
		writeNotInitialized(w, r)
		return
	}

	tournamentID, err := apiutil.PathID(r, tournamentIDPathKey)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	var req participantRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusBadRequest, Message: "Invalid JSON body", Err: err})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), tournamentQueryTimeout)
	defer cancel()

	if _, err := loadTournament(ctx, db.Queries, tournamentID); err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	params, err := buildParticipantParams(tournamentID, req)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	created, err := db.Queries.CreateParticipant(ctx, params)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	logger.Info().
		Int64("tournament_id", tournamentID).
		Int64("participant_id", created.ID).
		Msg("Participant registered")
	writeJSON(w, r, http.StatusCreated, newParticipantResponse(created))
}

// GET /api/v1/tournaments/{id}/participants
func HandleListParticipants(w http.ResponseWriter, r *http.Request) {
	db := loadDB()
	if db == nil {
		writeNotInitialized(w, r)
		return
	}

	tournamentID, err := apiutil.PathID(r, tournamentIDPathKey)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), tournamentQueryTimeout)
	defer cancel()

	if _, err := loadTournament(ctx, db.Queries, tournamentID); err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	rows, err := db.Queries.ListParticipantsByTournament(ctx, tournamentID)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	resp := make([]participantResponse, 0, len(rows))
	for _, row := range rows {
		resp = append(resp, newParticipantResponse(row))
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"participants": resp})
}

func buildTournamentParams(req tournamentRequest) (dbgen.CreateTournamentParams, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return dbgen.CreateTournamentParams{}, apiutil.FieldError{Field: "name", Reason: "is required"}
	}

	format, err := tournaments.ParseFormat(req.Format)
	if err != nil {
		return dbgen.CreateTournamentParams{}, apiutil.FieldError{Field: "format", Reason: "must be round_robin, single_elimination or group_knockout"}
	}

	groupCount := int64(1)
	if req.GroupCount != nil {
		groupCount = *req.GroupCount
	}
	if groupCount < 1 {
		return dbgen.CreateTournamentParams{}, apiutil.FieldError{Field: "groupCount", Reason: "must be at least 1"}
	}
	if format != tournaments.FormatGroupKnockout {
		groupCount = 1
	}

	policy := settings.DefaultByePolicy
	if strings.TrimSpace(req.ByePolicy) != "" {
		policy, err = tournaments.ParseByePolicy(req.ByePolicy)
		if err != nil {
			return dbgen.CreateTournamentParams{}, apiutil.FieldError{Field: "byePolicy", Reason: "must be confirm or auto"}
		}
	}

	params := dbgen.CreateTournamentParams{
		Name:       name,
		Format:     string(format),
		GroupCount: groupCount,
		ByePolicy:  string(policy),
	}
	if strings.TrimSpace(req.StartDate) != "" {
		startDate, err := apiutil.ParseDate(req.StartDate, "startDate")
		if err != nil {
			return dbgen.CreateTournamentParams{}, apiutil.FieldError{Field: "startDate", Reason: "must be a valid date"}
		}
		params.StartDate = apiutil.ToNullTime(&startDate)
	}
	return params, nil
}

func buildParticipantParams(tournamentID int64, req participantRequest) (dbgen.CreateParticipantParams, error) {
	var names []string
	for _, name := range req.Names {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	if len(names) == 0 || len(names) > maxNamesPerEntry {
		return dbgen.CreateParticipantParams{}, apiutil.FieldError{Field: "names", Reason: "must hold one player, or two for a doubles entry"}
	}
	if req.Group < 0 {
		return dbgen.CreateParticipantParams{}, apiutil.FieldError{Field: "group", Reason: "must be 0 or greater"}
	}
	if req.Seed < 0 {
		return dbgen.CreateParticipantParams{}, apiutil.FieldError{Field: "seed", Reason: "must be 0 or greater"}
	}

	emailAddr, err := normalizeEmail(req.Email)
	if err != nil {
		return dbgen.CreateParticipantParams{}, err
	}
	phone, err := normalizePhone(req.Phone, settings.PhoneRegion)
	if err != nil {
		return dbgen.CreateParticipantParams{}, err
	}

	params := dbgen.CreateParticipantParams{
		TournamentID: tournamentID,
		PlayerName:   names[0],
		GroupNumber:  req.Group,
		Seed:         req.Seed,
		Email:        apiutil.ToNullString(emailAddr),
		Phone:        apiutil.ToNullString(phone),
	}
	if len(names) == 2 {
		params.PartnerName = apiutil.ToNullString(names[1])
	}
	return params, nil
}

func normalizeEmail(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	addr, err := mail.ParseAddress(raw)
	if err != nil || addr.Address != raw {
		return "", apiutil.FieldError{Field: "email", Reason: "must be a valid email address"}
	}
	return strings.ToLower(addr.Address), nil
}

// normalizePhone formats raw as E.164, reading numbers without a country code
// in region.
func normalizePhone(raw, region string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	num, err := phonenumbers.Parse(raw, strings.ToUpper(region))
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return "", apiutil.FieldError{Field: "phone", Reason: "must be a valid phone number"}
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}

func loadTournament(ctx context.Context, q *dbgen.Queries, tournamentID int64) (dbgen.Tournament, error) {
	tournament, err := q.GetTournament(ctx, tournamentID)
	if err != nil {
		return dbgen.Tournament{}, notFoundOr(err, "Tournament not found")
	}
	return tournament, nil
}

func newTournamentResponse(row dbgen.Tournament) tournamentResponse {
	return tournamentResponse{
		ID:         row.ID,
		Name:       row.Name,
		Format:     tournaments.Format(row.Format),
		GroupCount: row.GroupCount,
		ByePolicy:  tournaments.ByePolicy(row.ByePolicy),
		StartDate:  apiutil.FromNullTime(row.StartDate),
		CreatedAt:  row.CreatedAt,
	}
}

func newParticipantResponse(row dbgen.TournamentParticipant) participantResponse {
	p := apiutil.ParticipantFromRow(row)
	return participantResponse{
		Participant:  p,
		TournamentID: row.TournamentID,
		DisplayName:  p.DisplayName(),
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	if err := apiutil.WriteJSON(w, status, payload); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write response")
	}
}

func writeNotInitialized(w http.ResponseWriter, r *http.Request) {
	apiutil.WriteError(w, r, errors.New("tournament handlers not initialized"))
}
