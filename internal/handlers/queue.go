package handlers

import (
	"net/http"

	"github.com/humed/photoqueue/internal/models"
)

// handleGetQueue returns a full snapshot of the queue state.
// Consoles call it on load and whenever they want to reconcile with
// the authoritative state; it never mutates anything.
func (h *Handlers) handleGetQueue(w http.ResponseWriter, r *http.Request) {
	snap, err := h.Queue.Snapshot(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, snap)
}

// handleCreateEntry registers a new visitor at the end of the queue
func (h *Handlers) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	var req QueueCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	entry, err := h.Queue.Create(r.Context(), req.Nama, req.Kelas, req.JumlahFoto)
	if err != nil {
		respondError(w, err)
		return
	}
	respondCreated(w, entry)
}

// handlePhotograph moves a waiting entry into the photographing slot
func (h *Handlers) handlePhotograph(w http.ResponseWriter, r *http.Request) {
	id, err := entryIDParam(r)
	if err != nil {
		respondError(w, err)
		return
	}

	entry, err := h.Queue.Advance(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, entry)
}

// handleDone finishes the currently photographing entry
func (h *Handlers) handleDone(w http.ResponseWriter, r *http.Request) {
	id, err := entryIDParam(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var req DoneRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	entry, err := h.Queue.MarkDone(r.Context(), id, models.PaymentMethod(req.PaymentMethod))
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, entry)
}

// handleCancel cancels a waiting or photographing entry
func (h *Handlers) handleCancel(w http.ResponseWriter, r *http.Request) {
	id, err := entryIDParam(r)
	if err != nil {
		respondError(w, err)
		return
	}

	entry, err := h.Queue.Cancel(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, entry)
}

// handleForce applies an administrator override to an entry
func (h *Handlers) handleForce(w http.ResponseWriter, r *http.Request) {
	id, err := entryIDParam(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var req ForceRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	entry, err := h.Queue.Force(r.Context(), id, req.Action, models.PaymentMethod(req.PaymentMethod))
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, entry)
}
