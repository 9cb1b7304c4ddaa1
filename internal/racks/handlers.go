package racks

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/royburns/fixcity/internal/geo"
	"github.com/royburns/fixcity/internal/utils"
)

// store is the active datastore, wired in Init / SetupRoutes.
var store Store

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeFormErrors(w http.ResponseWriter, errs FormErrors) {
	writeJSON(w, http.StatusBadRequest, map[string]any{"errors": errs})
}

// CreateRackHandler accepts a multipart rack submission: title, address,
// description, email, optional date (RFC3339), lat/lng, optional source_id,
// optional verified flag and an optional photo upload. Validation failures
// come back as a field→messages map.
func CreateRackHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}

	form, errs := formFromRequest(r)
	if errs != nil {
		writeFormErrors(w, errs)
		return
	}

	rack, cleanErrs := form.Clean()
	if cleanErrs != nil {
		writeFormErrors(w, cleanErrs)
		return
	}

	// Photo is stored only after the submission validates.
	if file, header, err := r.FormFile("photo"); err == nil {
		defer file.Close()
		photoURL, err := SavePhoto(file, header)
		if err != nil {
			log.Printf("[racks] failed to store photo: %v", err)
			http.Error(w, "Failed to store photo", http.StatusInternalServerError)
			return
		}
		rack.PhotoURL = &photoURL
	}

	if err := store.CreateRack(r.Context(), rack); err != nil {
		log.Printf("[racks] create rack failed: %v", err)
		http.Error(w, "Failed to save rack", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, rack)
}

// formFromRequest maps the multipart fields onto a RackForm. Returns field
// errors for values that cannot be interpreted at all (bad date, bad uuid,
// bad coordinates); the domain rules run in Clean.
func formFromRequest(r *http.Request) (*RackForm, FormErrors) {
	errs := FormErrors{}

	form := &RackForm{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Address:     r.FormValue("address"),
		Email:       r.FormValue("email"),
		Verified:    r.FormValue("verified") == "true",
		Date:        time.Now(),
	}

	if v := r.FormValue("date"); v != "" {
		d, err := time.Parse(time.RFC3339, v)
		if err != nil {
			errs.add("date", "Enter a valid date/time (RFC3339).")
		} else {
			form.Date = d
		}
	}

	if v := r.FormValue("source_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			errs.add("source_id", "Enter a valid source id.")
		} else {
			form.SourceID = &id
		}
	}

	lat, lng := r.FormValue("lat"), r.FormValue("lng")
	if lat != "" && lng != "" {
		latF, errLat := strconv.ParseFloat(lat, 64)
		lngF, errLng := strconv.ParseFloat(lng, 64)
		if errLat != nil || errLng != nil {
			errs.add("location", "Enter valid coordinates.")
		} else {
			form.Location = geo.Point(lngF, latF)
		}
	}

	if _, _, err := r.FormFile("photo"); err == nil {
		form.HasPhoto = true
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return form, nil
}

func ListRacksHandler(w http.ResponseWriter, r *http.Request) {
	racks, err := store.ListRacks(r.Context())
	if err != nil {
		http.Error(w, "Failed to list racks", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, racks)
}

func GetRackHandler(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid rack id", http.StatusBadRequest)
		return
	}
	rack, err := store.GetRack(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		http.Error(w, "Rack not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "Failed to load rack", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, rack)
}

func DeleteRackHandler(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid rack id", http.StatusBadRequest)
		return
	}
	err = store.DeleteRack(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		http.Error(w, "Rack not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "Failed to delete rack", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// VerifyRackHandler marks a rack verified. A rack without a photo cannot be
// verified; the rejection names the field like the submission form does.
func VerifyRackHandler(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid rack id", http.StatusBadRequest)
		return
	}
	rack, err := store.GetRack(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		http.Error(w, "Rack not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "Failed to load rack", http.StatusInternalServerError)
		return
	}

	if !rack.HasPhoto() {
		writeFormErrors(w, FormErrors{
			"verified": {"You can't mark a rack as verified unless it has a photo"},
		})
		return
	}

	rack.Verified = true
	if err := store.SaveRack(r.Context(), rack); err != nil {
		http.Error(w, "Failed to save rack", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, rack)
}

// GetSourceHandler resolves a generic source handle to its concrete variant.
func GetSourceHandler(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid source id", http.StatusBadRequest)
		return
	}
	variant, err := store.ChildSource(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		http.Error(w, "Source not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "Failed to load source", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"name":   variant.SourceName(),
		"source": variant,
	})
}

func ListBoardsHandler(w http.ResponseWriter, r *http.Request) {
	boards, err := store.ListCommunityBoards(r.Context())
	if err != nil {
		http.Error(w, "Failed to list community boards", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, boards)
}

// BoardRacksHandler returns the racks currently inside a board boundary.
// The set is computed on demand from the boundary geometry.
func BoardRacksHandler(w http.ResponseWriter, r *http.Request) {
	gid, err := strconv.Atoi(chi.URLParam(r, "gid"))
	if err != nil {
		http.Error(w, "Invalid board id", http.StatusBadRequest)
		return
	}
	board, err := store.GetCommunityBoard(r.Context(), gid)
	if errors.Is(err, ErrNotFound) {
		http.Error(w, "Community board not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "Failed to load community board", http.StatusInternalServerError)
		return
	}
	racks, err := board.Racks(r.Context(), store)
	if err != nil {
		log.Printf("[racks] board containment query failed: %v", err)
		http.Error(w, "Failed to query racks", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, racks)
}

// CreateBulkOrderHandler opens an unapproved bulk order for a community board
// on behalf of the logged-in user. Unapproved orders own no racks.
func CreateBulkOrderHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var body struct {
		CommunityBoardID int `json:"community_board_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if _, err := store.GetCommunityBoard(r.Context(), body.CommunityBoardID); err != nil {
		http.Error(w, "Community board not found", http.StatusNotFound)
		return
	}

	bo := &BulkOrder{UserID: userID, CommunityBoardID: body.CommunityBoardID}
	if err := store.CreateBulkOrder(r.Context(), bo); err != nil {
		http.Error(w, "Failed to create bulk order", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, bo)
}

// ApproveBulkOrderHandler performs the one-way approval transition. Approving
// an already-approved order is a no-op; the snapshot is never retaken.
func ApproveBulkOrderHandler(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid bulk order id", http.StatusBadRequest)
		return
	}
	bo, err := store.GetBulkOrder(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		http.Error(w, "Bulk order not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "Failed to load bulk order", http.StatusInternalServerError)
		return
	}

	if !bo.Approved {
		if err := store.ApproveBulkOrder(r.Context(), bo); err != nil {
			log.Printf("[racks] bulk order approval failed: %v", err)
			http.Error(w, "Failed to approve bulk order", http.StatusInternalServerError)
			return
		}
	}
	writeJSON(w, http.StatusOK, bo)
}

func DeleteBulkOrderHandler(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid bulk order id", http.StatusBadRequest)
		return
	}
	bo, err := store.GetBulkOrder(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		http.Error(w, "Bulk order not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "Failed to load bulk order", http.StatusInternalServerError)
		return
	}
	if err := store.DeleteBulkOrder(r.Context(), bo); err != nil {
		http.Error(w, "Failed to delete bulk order", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
