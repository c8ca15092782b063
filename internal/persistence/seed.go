package persistence

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/campus-reports/internal/models"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

// DefaultReports is the example data written to an empty or corrupt store.
// Newest first, matching the store order.
func DefaultReports() []models.Report {
	replyAt := day(2024, time.January, 16)
	return []models.Report{
		{
			ID:                4,
			Title:             "Canteen Cleanliness",
			Category:          models.CategoryCleanliness,
			Content:           "The dining area in the central canteen needs more frequent cleaning because litter is everywhere.",
			AuthorID:          "user2",
			AuthorDisplayName: "Budi Santoso",
			CreatedAt:         day(2024, time.January, 25),
			Status:            models.StatusPending,
		},
		{
			ID:                3,
			Title:             "Building B Toilets Need Repair",
			Category:          models.CategoryToilet,
			Content:           "Several toilets on the second floor of Building B have broken taps and doors.",
			AuthorID:          "user1",
			AuthorDisplayName: "M Dantha Arianvasya",
			CreatedAt:         day(2024, time.January, 22),
			Status:            models.StatusInProgress,
		},
		{
			ID:                2,
			Title:             "Classroom Air Conditioner Broken",
			Category:          models.CategoryClassroom,
			Content:           "The air conditioner in classroom 301 has not worked for two weeks. It is disrupting lectures.",
			AuthorID:          "user2",
			AuthorDisplayName: "Budi Santoso",
			CreatedAt:         day(2024, time.January, 20),
			Status:            models.StatusPending,
		},
		{
			ID:                1,
			Title:             "Campus WiFi Is Slow",
			Category:          models.CategoryOther,
			Content:           "The WiFi connection in the lecture buildings is very slow, especially at peak hours. Please increase capacity.",
			AuthorID:          "user1",
			AuthorDisplayName: "M Dantha Arianvasya",
			CreatedAt:         day(2024, time.January, 15),
			Status:            models.StatusResolved,
			ReviewerReply:     "Thank you for the report. We will contact the IT office to increase WiFi capacity.",
			ReviewerReplyAt:   &replyAt,
		},
	}
}
