package service

import (
	"testing"
	"time"

	"github.com/khues-restaurant/khues-restaurant-sub000/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestHourLabel(t *testing.T) {
	tests := []struct {
		hour int
		want string
	}{
		{0, "12:00 AM"},
		{1, "1:00 AM"},
		{11, "11:00 AM"},
		{12, "12:00 PM"},
		{13, "1:00 PM"},
		{18, "6:00 PM"},
		{23, "11:00 PM"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, hourLabel(tt.hour), "hour %d", tt.hour)
	}
}

func TestOrdinal(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{1, "1st"},
		{2, "2nd"},
		{3, "3rd"},
		{4, "4th"},
		{11, "11th"},
		{12, "12th"},
		{13, "13th"},
		{21, "21st"},
		{22, "22nd"},
		{23, "23rd"},
		{30, "30th"},
		{31, "31st"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ordinal(tt.n), "n=%d", tt.n)
	}
}

func TestPeriodLabel(t *testing.T) {
	assert.Equal(t, "12:00 AM", periodLabel(0, model.PeriodicityDaily))
	assert.Equal(t, "6:00 PM", periodLabel(18, model.PeriodicityDaily))
	assert.Equal(t, "Sunday", periodLabel(0, model.PeriodicityWeekly))
	assert.Equal(t, "Monday", periodLabel(1, model.PeriodicityWeekly))
	assert.Equal(t, "Saturday", periodLabel(6, model.PeriodicityWeekly))
	assert.Equal(t, "1st", periodLabel(0, model.PeriodicityMonthly))
	assert.Equal(t, "3rd", periodLabel(2, model.PeriodicityMonthly))
	assert.Equal(t, "31st", periodLabel(30, model.PeriodicityMonthly))
	assert.Equal(t, "January", periodLabel(0, model.PeriodicityYearly))
	assert.Equal(t, "March", periodLabel(2, model.PeriodicityYearly))
	assert.Equal(t, "December", periodLabel(11, model.PeriodicityYearly))
}

func TestBucketIndex(t *testing.T) {
	// 2024-06-03 is a Monday
	ts := time.Date(2024, time.June, 3, 14, 30, 0, 0, time.UTC)

	assert.Equal(t, 14, bucketIndex(ts, model.PeriodicityDaily))
	assert.Equal(t, 1, bucketIndex(ts, model.PeriodicityWeekly))
	assert.Equal(t, 2, bucketIndex(ts, model.PeriodicityMonthly))
	assert.Equal(t, 5, bucketIndex(ts, model.PeriodicityYearly))

	midnightSunday := time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 0, bucketIndex(midnightSunday, model.PeriodicityDaily))
	assert.Equal(t, 0, bucketIndex(midnightSunday, model.PeriodicityWeekly))
	assert.Equal(t, 0, bucketIndex(midnightSunday, model.PeriodicityMonthly))
	assert.Equal(t, 11, bucketIndex(midnightSunday, model.PeriodicityYearly))

	lastDay := time.Date(2024, time.January, 31, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, 23, bucketIndex(lastDay, model.PeriodicityDaily))
	assert.Equal(t, 30, bucketIndex(lastDay, model.PeriodicityMonthly))
}

func TestBucketCount(t *testing.T) {
	assert.Equal(t, 24, model.PeriodicityDaily.BucketCount())
	assert.Equal(t, 7, model.PeriodicityWeekly.BucketCount())
	assert.Equal(t, 31, model.PeriodicityMonthly.BucketCount())
	assert.Equal(t, 12, model.PeriodicityYearly.BucketCount())
	assert.Equal(t, 0, model.Periodicity("hourly").BucketCount())
}
