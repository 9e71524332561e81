package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"folio/internal/model"
	"folio/internal/order"
	"folio/internal/portfolio"

	"github.com/go-chi/chi/v5"
)

const maxBodyBytes = 1 << 20

type moveRequest struct {
	ID        model.ID `json:"id"`
	Direction string   `json:"direction"`
}

type swapRequest struct {
	A model.ID `json:"a"`
	B model.ID `json:"b"`
}

type reorderRequest struct {
	IDs []model.ID `json:"ids"`
}

type categoryRequest struct {
	Action    string   `json:"action"`
	ID        model.ID `json:"id"`
	Name      string   `json:"name"`
	Direction string   `json:"direction"`
}

func (c categoryRequest) toAction() (order.RegistryAction, error) {
	op, err := order.ParseRegistryOp(c.Action)
	if err != nil {
		return order.RegistryAction{}, err
	}
	a := order.RegistryAction{Op: op, ID: int(c.ID), Name: c.Name}
	if op == order.OpMove {
		d, err := model.ParseDirection(c.Direction)
		if err != nil {
			return order.RegistryAction{}, err
		}
		a.Direction = d
	}
	return a, nil
}

// mountKind registers the public and admin routes of one shelf.
func mountKind[T model.Record[T]](s *Server, r chi.Router, shelf *portfolio.Shelf[T]) {
	kind := string(shelf.Kind())

	r.Route("/api/"+kind, func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			s.writeJSON(w, http.StatusOK, shelf.PublicView())
		})
		r.Get("/categories", func(w http.ResponseWriter, r *http.Request) {
			s.writeJSON(w, http.StatusOK, shelf.Registry())
		})
	})

	r.Route("/admin/api/"+kind, func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			v, err := shelf.AdminView(r.URL.Query().Get("sort_by"))
			if err != nil {
				s.writeError(w, r, err)
				return
			}
			s.writeJSON(w, http.StatusOK, v)
		})

		r.Post("/", func(w http.ResponseWriter, r *http.Request) {
			b, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
			if err != nil {
				s.writeError(w, r, fmt.Errorf("%w: %v", model.ErrInvalidInput, err))
				return
			}
			rec, err := shelf.AddJSON(b, nil)
			if err != nil {
				s.writeError(w, r, err)
				return
			}
			s.writeJSON(w, http.StatusCreated, rec)
		})

		r.Post("/move", func(w http.ResponseWriter, r *http.Request) {
			var req moveRequest
			if !s.decodeBody(w, r, &req) {
				return
			}
			dir, err := model.ParseDirection(req.Direction)
			if err != nil {
				s.writeError(w, r, err)
				return
			}
			moved, err := shelf.Move(int(req.ID), dir)
			if err != nil {
				s.writeError(w, r, err)
				return
			}
			s.writeJSON(w, http.StatusOK, map[string]bool{"moved": moved})
		})

		r.Post("/swap", func(w http.ResponseWriter, r *http.Request) {
			var req swapRequest
			if !s.decodeBody(w, r, &req) {
				return
			}
			if err := shelf.Swap(int(req.A), int(req.B)); err != nil {
				s.writeError(w, r, err)
				return
			}
			s.writeJSON(w, http.StatusOK, map[string]bool{"swapped": true})
		})

		r.Post("/reorder", func(w http.ResponseWriter, r *http.Request) {
			var req reorderRequest
			if !s.decodeBody(w, r, &req) {
				return
			}
			ids := make([]int, 0, len(req.IDs))
			for _, id := range req.IDs {
				ids = append(ids, int(id))
			}
			recs, err := shelf.Reorder(ids)
			if err != nil {
				s.writeError(w, r, err)
				return
			}
			s.writeJSON(w, http.StatusOK, recs)
		})

		r.Get("/categories", func(w http.ResponseWriter, r *http.Request) {
			s.writeJSON(w, http.StatusOK, shelf.Registry())
		})

		r.Post("/categories", func(w http.ResponseWriter, r *http.Request) {
			var req categoryRequest
			if !s.decodeBody(w, r, &req) {
				return
			}
			a, err := req.toAction()
			if err != nil {
				s.writeError(w, r, err)
				return
			}
			reg, err := shelf.ApplyCategory(a)
			if err != nil {
				s.writeError(w, r, err)
				return
			}
			s.writeJSON(w, http.StatusOK, reg)
		})

		r.Get("/categories/used", func(w http.ResponseWriter, r *http.Request) {
			s.writeJSON(w, http.StatusOK, shelf.CategoriesUsed())
		})

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", func(w http.ResponseWriter, r *http.Request) {
				id, ok := s.pathID(w, r)
				if !ok {
					return
				}
				rec, err := shelf.Get(id)
				if err != nil {
					s.writeError(w, r, err)
					return
				}
				s.writeJSON(w, http.StatusOK, rec)
			})
			r.Patch("/", func(w http.ResponseWriter, r *http.Request) {
				id, ok := s.pathID(w, r)
				if !ok {
					return
				}
				patch := map[string]any{}
				if !s.decodeBody(w, r, &patch) {
					return
				}
				rec, err := shelf.Update(id, patch)
				if err != nil {
					s.writeError(w, r, err)
					return
				}
				s.writeJSON(w, http.StatusOK, rec)
			})
			r.Delete("/", func(w http.ResponseWriter, r *http.Request) {
				id, ok := s.pathID(w, r)
				if !ok {
					return
				}
				rec, err := shelf.Delete(id)
				if err != nil {
					s.writeError(w, r, err)
					return
				}
				s.writeJSON(w, http.StatusOK, rec)
			})
		})
	})
}

func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		s.writeError(w, r, fmt.Errorf("%w: decode body: %v", model.ErrInvalidInput, err))
		return false
	}
	return true
}

func (s *Server) pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := model.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return 0, false
	}
	return id, true
}
