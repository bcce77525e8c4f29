package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"yoga_studio_backend/models"
)

var ErrNoClassesRemaining = errors.New("no classes remaining")

// Bucket names as reported in step results and payment records.
const (
	BucketSingle = "single_classes"
	BucketFive   = "five_pack"
	BucketTen    = "ten_pack"
)

// DebitBucket removes one credit following the fixed priority order:
// single classes first, then the five-pack, then the ten-pack. Exactly one
// bucket is decremented; with nothing left it returns ErrNoClassesRemaining
// and the buckets unchanged.
func DebitBucket(b models.CreditBuckets) (models.CreditBuckets, string, error) {
	switch {
	case b.SingleClasses > 0:
		b.SingleClasses--
		return b, BucketSingle, nil
	case b.FivePack > 0:
		b.FivePack--
		return b, BucketFive, nil
	case b.TenPack > 0:
		b.TenPack--
		return b, BucketTen, nil
	}
	return b, "", ErrNoClassesRemaining
}

// RestoreBucket puts one credit back after a cancellation. The rule is not
// the mirror of DebitBucket: a class whose name contains "Single", or an
// account that still holds single-class credits, restores to the single
// bucket; otherwise the five-pack is topped up while below 5, then the
// ten-pack while below 10. The name heuristic is long-standing behavior and
// is kept byte-for-byte.
func RestoreBucket(b models.CreditBuckets, className string) (models.CreditBuckets, string) {
	switch {
	case strings.Contains(className, "Single") || b.SingleClasses > 0:
		b.SingleClasses++
		return b, BucketSingle
	case b.FivePack < 5:
		b.FivePack++
		return b, BucketFive
	case b.TenPack < 10:
		b.TenPack++
		return b, BucketTen
	}
	// Every pack already full: the credit still has to land somewhere.
	b.SingleClasses++
	return b, BucketSingle
}

// ApplyPackage credits exactly one bucket with the quantity its kind grants.
func ApplyPackage(b models.CreditBuckets, kind string) (models.CreditBuckets, error) {
	switch kind {
	case models.PackageSingle:
		b.SingleClasses++
	case models.PackageFive:
		b.FivePack += 5
	case models.PackageTen:
		b.TenPack += 10
	default:
		return b, fmt.Errorf("unknown package kind: %q", kind)
	}
	return b, nil
}

// SaveBucketsLocked writes bucket values inside a row-locked transaction so
// two concurrent mutations of the same account cannot lose an update, and
// rejects any write that would leave a bucket negative.
func SaveBucketsLocked(db *gorm.DB, userID uuid.UUID, b models.CreditBuckets) error {
	if b.SingleClasses < 0 || b.FivePack < 0 || b.TenPack < 0 {
		return errors.New("credit buckets cannot go negative")
	}
	return db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, "id = ?", userID).Error; err != nil {
			return err
		}
		user.CreditBuckets = b
		return tx.Save(&user).Error
	})
}
