package account

import (
	"testing"
	"time"
)

func TestNewUser_Defaults(t *testing.T) {
	u := NewUser("owner@example.com", "Glow Studio")

	if u.Tier() != TierFree {
		t.Errorf("Tier() = %q, want free", u.Tier())
	}
	if u.QuotaLimit() != DefaultQuotaLimit {
		t.Errorf("QuotaLimit() = %d, want %d", u.QuotaLimit(), DefaultQuotaLimit)
	}
	if u.QuotaUsed() != 0 {
		t.Errorf("QuotaUsed() = %d, want 0", u.QuotaUsed())
	}
	if !u.Active() {
		t.Error("new users should be active")
	}
}

func TestUser_HasQuota(t *testing.T) {
	u := ReconstructUser(1, "a@b.c", "Biz", TierFree, 95, 100, true, time.Time{})

	if !u.HasQuota(5) {
		t.Error("HasQuota(5) should be true at 95/100")
	}
	if u.HasQuota(6) {
		t.Error("HasQuota(6) should be false at 95/100")
	}
}

func TestUser_ConsumeQuota(t *testing.T) {
	u := NewUser("a@b.c", "Biz")
	charged := u.ConsumeQuota(7)

	if charged.QuotaUsed() != 7 {
		t.Errorf("QuotaUsed() = %d, want 7", charged.QuotaUsed())
	}
	if u.QuotaUsed() != 0 {
		t.Error("original user should be unchanged")
	}
}

func TestUser_QuotaRemaining(t *testing.T) {
	u := ReconstructUser(1, "a@b.c", "Biz", TierPro, 120, 100, true, time.Time{})

	if u.QuotaRemaining() != 0 {
		t.Errorf("QuotaRemaining() = %d, want 0 when over limit", u.QuotaRemaining())
	}
}

func TestTier_Valid(t *testing.T) {
	for _, tier := range []Tier{TierFree, TierPro, TierEnterprise} {
		if !tier.Valid() {
			t.Errorf("%q should be valid", tier)
		}
	}
	if Tier("platinum").Valid() {
		t.Error("unknown tier should be invalid")
	}
}
