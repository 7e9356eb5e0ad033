package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/trade-ledger/internal/domain"
	"github.com/jhoicas/trade-ledger/internal/domain/entity"
	"github.com/jhoicas/trade-ledger/internal/domain/repository"
)

var (
	_ repository.InboundRepository    = (*InboundRepo)(nil)
	_ repository.OutboundRepository   = (*OutboundRepo)(nil)
	_ repository.AdjustmentRepository = (*AdjustmentRepo)(nil)
	_ repository.PartnerRepository    = (*PartnerRepo)(nil)
)

// byDateSeq orden (date, seq) ascendente compartido por las tres tablas fuente.
func byDateSeq(di, dj time.Time, si, sj int64) bool {
	if !di.Equal(dj) {
		return di.Before(dj)
	}
	return si < sj
}

// InboundRepo entradas en memoria.
type InboundRepo struct {
	a access
}

func (r *InboundRepo) Create(_ context.Context, rec *entity.InboundRecord) error {
	return r.a.write("inbound.Create", func(st *state) error {
		if _, ok := st.inbound[rec.ID]; ok {
			return domain.ErrInvalidInput
		}
		rec.Seq = st.nextSeq()
		cp := *rec
		st.inbound[rec.ID] = &cp
		return nil
	})
}

func (r *InboundRepo) Update(_ context.Context, rec *entity.InboundRecord) error {
	return r.a.write("inbound.Update", func(st *state) error {
		old, ok := st.inbound[rec.ID]
		if !ok {
			return domain.ErrNotFound
		}
		rec.Seq = old.Seq
		cp := *rec
		st.inbound[rec.ID] = &cp
		return nil
	})
}

func (r *InboundRepo) Delete(_ context.Context, id string) error {
	return r.a.write("inbound.Delete", func(st *state) error {
		if _, ok := st.inbound[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.inbound, id)
		return nil
	})
}

func (r *InboundRepo) GetByID(_ context.Context, id string) (*entity.InboundRecord, error) {
	var out *entity.InboundRecord
	err := r.a.read(func(st *state) error {
		if rec, ok := st.inbound[id]; ok {
			cp := *rec
			out = &cp
		}
		return nil
	})
	return out, err
}

func (r *InboundRepo) ListOrdered(_ context.Context) ([]*entity.InboundRecord, error) {
	var out []*entity.InboundRecord
	err := r.a.read(func(st *state) error {
		for _, rec := range st.inbound {
			cp := *rec
			out = append(out, &cp)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return byDateSeq(out[i].Date, out[j].Date, out[i].Seq, out[j].Seq) })
	return out, err
}

// OutboundRepo salidas en memoria.
type OutboundRepo struct {
	a access
}

func (r *OutboundRepo) Create(_ context.Context, rec *entity.OutboundRecord) error {
	return r.a.write("outbound.Create", func(st *state) error {
		if _, ok := st.outbound[rec.ID]; ok {
			return domain.ErrInvalidInput
		}
		rec.Seq = st.nextSeq()
		cp := *rec
		st.outbound[rec.ID] = &cp
		return nil
	})
}

func (r *OutboundRepo) Update(_ context.Context, rec *entity.OutboundRecord) error {
	return r.a.write("outbound.Update", func(st *state) error {
		old, ok := st.outbound[rec.ID]
		if !ok {
			return domain.ErrNotFound
		}
		rec.Seq = old.Seq
		cp := *rec
		st.outbound[rec.ID] = &cp
		return nil
	})
}

func (r *OutboundRepo) Delete(_ context.Context, id string) error {
	return r.a.write("outbound.Delete", func(st *state) error {
		if _, ok := st.outbound[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.outbound, id)
		return nil
	})
}

func (r *OutboundRepo) GetByID(_ context.Context, id string) (*entity.OutboundRecord, error) {
	var out *entity.OutboundRecord
	err := r.a.read(func(st *state) error {
		if rec, ok := st.outbound[id]; ok {
			cp := *rec
			out = &cp
		}
		return nil
	})
	return out, err
}

func (r *OutboundRepo) ListOrdered(_ context.Context, until *time.Time) ([]*entity.OutboundRecord, error) {
	var out []*entity.OutboundRecord
	err := r.a.read(func(st *state) error {
		for _, rec := range st.outbound {
			if until != nil && rec.Date.After(*until) {
				continue
			}
			cp := *rec
			out = append(out, &cp)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return byDateSeq(out[i].Date, out[j].Date, out[i].Seq, out[j].Seq) })
	return out, err
}

// AdjustmentRepo ajustes en memoria.
type AdjustmentRepo struct {
	a access
}

func (r *AdjustmentRepo) Create(_ context.Context, rec *entity.AdjustmentRecord) error {
	return r.a.write("adjustments.Create", func(st *state) error {
		if _, ok := st.adjustments[rec.ID]; ok {
			return domain.ErrInvalidInput
		}
		rec.Seq = st.nextSeq()
		cp := *rec
		st.adjustments[rec.ID] = &cp
		return nil
	})
}

func (r *AdjustmentRepo) Update(_ context.Context, rec *entity.AdjustmentRecord) error {
	return r.a.write("adjustments.Update", func(st *state) error {
		old, ok := st.adjustments[rec.ID]
		if !ok {
			return domain.ErrNotFound
		}
		rec.Seq = old.Seq
		cp := *rec
		st.adjustments[rec.ID] = &cp
		return nil
	})
}

func (r *AdjustmentRepo) Delete(_ context.Context, id string) error {
	return r.a.write("adjustments.Delete", func(st *state) error {
		if _, ok := st.adjustments[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.adjustments, id)
		return nil
	})
}

func (r *AdjustmentRepo) GetByID(_ context.Context, id string) (*entity.AdjustmentRecord, error) {
	var out *entity.AdjustmentRecord
	err := r.a.read(func(st *state) error {
		if rec, ok := st.adjustments[id]; ok {
			cp := *rec
			out = &cp
		}
		return nil
	})
	return out, err
}

func (r *AdjustmentRepo) ListOrdered(_ context.Context) ([]*entity.AdjustmentRecord, error) {
	var out []*entity.AdjustmentRecord
	err := r.a.read(func(st *state) error {
		for _, rec := range st.adjustments {
			cp := *rec
			out = append(out, &cp)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return byDateSeq(out[i].Date, out[j].Date, out[i].Seq, out[j].Seq) })
	return out, err
}

// PartnerRepo directorio de clientes en memoria.
type PartnerRepo struct {
	a access
}

func (r *PartnerRepo) ListAll(_ context.Context) ([]*entity.Partner, error) {
	var out []*entity.Partner
	err := r.a.read(func(st *state) error {
		for _, p := range st.partners {
			cp := *p
			out = append(out, &cp)
		}
		return nil
	})
	return out, err
}
