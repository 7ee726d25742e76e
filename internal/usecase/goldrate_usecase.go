package usecase

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/sirupsen/logrus"
)

// GoldRateUsecase は金レートの公開と管理者更新。
// 更新時は対象純度の商品価格も同一Txで比例再計算する。
type GoldRateUsecase struct {
	tx           repo.TransactionManager
	goldRateRepo repo.GoldRateRepository
}

func NewGoldRateUsecase(tx repo.TransactionManager, goldRateRepo repo.GoldRateRepository) *GoldRateUsecase {
	return &GoldRateUsecase{tx: tx, goldRateRepo: goldRateRepo}
}

type GoldRateOutput struct {
	Rate24K   int64     `json:"rate_24k"`
	Rate22K   int64     `json:"rate_22k"`
	Rate18K   int64     `json:"rate_18k"`
	UpdatedAt time.Time `json:"updated_at"`
}

type UpdateGoldRateInput struct {
	Rate24K int64 `json:"rate_24k"`
}

type UpdateGoldRateOutput struct {
	Rate     GoldRateOutput `json:"rate"`
	Repriced int64          `json:"repriced_products"`
}

// 現在レート（公開API）。
func (u *GoldRateUsecase) Current(ctx context.Context) (GoldRateOutput, error) {
	rate, err := u.goldRateRepo.Latest(ctx)
	if err == repo.ErrNotFound {
		return GoldRateOutput{}, NewHTTPError(http.StatusNotFound, "rate not set")
	}
	if err != nil {
		return GoldRateOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return toGoldRateOutput(rate), nil
}

// 管理者によるレート更新。
// 新レート行の追記と、純度ごとの商品価格一括再計算（新レート/旧レートの比）を
// 同一Txで行う。旧レートが無い初回は再計算をスキップする。
func (u *GoldRateUsecase) AdminUpdate(ctx context.Context, adminUserID int64, in UpdateGoldRateInput) (UpdateGoldRateOutput, error) {
	if adminUserID <= 0 {
		return UpdateGoldRateOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.Rate24K <= 0 {
		return UpdateGoldRateOutput{}, NewHTTPError(http.StatusBadRequest, "invalid rate")
	}

	var out UpdateGoldRateOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		prev, perr := r.GoldRates().Latest(ctx)
		hasPrev := perr == nil
		if perr != nil && perr != repo.ErrNotFound {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		newRate := model.GoldRate{
			Rate24K:   in.Rate24K,
			Rate22K:   model.DeriveRate(in.Rate24K, model.Purity22K),
			Rate18K:   model.DeriveRate(in.Rate24K, model.Purity18K),
			UpdatedBy: adminUserID,
			CreatedAt: time.Now(),
		}

		created, err := r.GoldRates().Create(ctx, newRate)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		var repriced int64
		if hasPrev && prev.Rate24K > 0 {
			//比例再計算。純度ごとに新/旧の係数を掛ける。
			pairs := []struct {
				purity   model.Purity
				from, to int64
			}{
				{model.Purity24K, prev.Rate24K, created.Rate24K},
				{model.Purity22K, prev.Rate22K, created.Rate22K},
				{model.Purity18K, prev.Rate18K, created.Rate18K},
			}
			for _, p := range pairs {
				if p.from <= 0 || p.from == p.to {
					continue
				}
				n, err := r.Products().RepriceByPurity(ctx, p.purity, p.to, p.from)
				if err != nil {
					return NewHTTPError(http.StatusInternalServerError, "db error")
				}
				repriced += n
			}
		} else {
			logrus.Info("first gold rate set, skipping reprice")
		}

		var beforeJSON []byte
		if hasPrev {
			beforeJSON, _ = json.Marshal(map[string]int64{"rate_24k": prev.Rate24K})
		}
		afterJSON, _ := json.Marshal(map[string]int64{"rate_24k": created.Rate24K})
		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  adminUserID,
			Action:       model.AuditActionUpdateGoldRate,
			ResourceType: model.AuditResourceGoldRate,
			ResourceID:   created.ID,
			BeforeJSON:   string(beforeJSON),
			AfterJSON:    string(afterJSON),
			CreatedAt:    time.Now(),
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = UpdateGoldRateOutput{Rate: toGoldRateOutput(created), Repriced: repriced}
		return nil
	})

	if err != nil {
		return UpdateGoldRateOutput{}, err
	}
	return out, nil
}

func toGoldRateOutput(r model.GoldRate) GoldRateOutput {
	return GoldRateOutput{
		Rate24K:   r.Rate24K,
		Rate22K:   r.Rate22K,
		Rate18K:   r.Rate18K,
		UpdatedAt: r.CreatedAt,
	}
}
