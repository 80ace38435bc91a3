package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordAward(t *testing.T) {
	PointsAwardedTotal.Reset()

	RecordAward("create_post", 5)
	RecordAward("create_post", 5)
	RecordAward("react", 1)

	count := testutil.ToFloat64(PointsAwardedTotal.WithLabelValues("create_post"))
	if count != 10 {
		t.Errorf("Expected create_post points = 10, got %f", count)
	}

	count = testutil.ToFloat64(PointsAwardedTotal.WithLabelValues("react"))
	if count != 1 {
		t.Errorf("Expected react points = 1, got %f", count)
	}
}

func TestRecordPromotion(t *testing.T) {
	BadgePromotionsTotal.Reset()

	RecordPromotion("Forum Active")
	RecordPromotion("Forum Active")

	count := testutil.ToFloat64(BadgePromotionsTotal.WithLabelValues("Forum Active"))
	if count != 2 {
		t.Errorf("Expected promotions = 2, got %f", count)
	}
}

func TestRecordQuotaRejection(t *testing.T) {
	QuotaRejectionsTotal.Reset()

	RecordQuotaRejection("Forum Newbie")

	count := testutil.ToFloat64(QuotaRejectionsTotal.WithLabelValues("Forum Newbie"))
	if count != 1 {
		t.Errorf("Expected rejections = 1, got %f", count)
	}
}

func TestRecordBackfill(t *testing.T) {
	BackfillAwardsTotal.Reset()

	RecordBackfill("create_post", "awarded")
	RecordBackfill("create_post", "skipped")
	RecordBackfill("create_post", "skipped")

	count := testutil.ToFloat64(BackfillAwardsTotal.WithLabelValues("create_post", "skipped"))
	if count != 2 {
		t.Errorf("Expected skipped = 2, got %f", count)
	}
}

func TestSetAuditMismatches(t *testing.T) {
	SetAuditMismatches(3)

	if got := testutil.ToFloat64(BadgeAuditMismatches); got != 3 {
		t.Errorf("Expected mismatches = 3, got %f", got)
	}
}
