package main

import (
	"log"

	"markethub-be/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SeedNotificationTypes populates the database with default notification types.
func SeedNotificationTypes(db *gorm.DB) {
	types := []model.NotificationType{
		{
			Code:        "ORDER_CONFIRMED",
			DisplayName: "Payment Received",
			Template:    "Payment received for order {reference}",
			TargetType:  "SELF",
			Priority:    "HIGH",
			IsActive:    true,
			Channels:    datatypes.JSON([]byte(`["web", "email"]`)),
		},
		{
			Code:        "BOOKING_CREATED",
			DisplayName: "New Booking",
			Template:    "You have a new booking on {date}",
			TargetType:  "SELF",
			Priority:    "HIGH",
			IsActive:    true,
			Channels:    datatypes.JSON([]byte(`["web"]`)),
		},
		{
			Code:        "SUBSCRIPTION_SUSPENDED",
			DisplayName: "Store Suspended",
			Template:    "Your subscription expired and your store is now hidden. Renew within the grace window to restore it.",
			TargetType:  "SELF",
			Priority:    "HIGH",
			IsActive:    true,
			Channels:    datatypes.JSON([]byte(`["web", "email"]`)),
		},
		{
			Code:        "SUBSCRIPTION_RENEWED",
			DisplayName: "Subscription Renewed",
			Template:    "Your subscription is active until {expires_at}",
			TargetType:  "SELF",
			Priority:    "MEDIUM",
			IsActive:    true,
			Channels:    datatypes.JSON([]byte(`["web"]`)),
		},
		{
			Code:        "SUBSCRIPTION_DELETED",
			DisplayName: "Vendor Account Removed",
			Template:    "Vendor account {user_id} was removed after the grace window lapsed",
			TargetType:  "BROADCAST",
			Priority:    "LOW",
			IsActive:    false,
			Channels:    datatypes.JSON([]byte(`["web"]`)),
		},
	}

	for _, t := range types {
		err := db.Where("code = ?", t.Code).FirstOrCreate(&t).Error
		if err != nil {
			log.Printf("Error seeding notification type %s: %v", t.Code, err)
		}
	}
	log.Println("✅ Notification types seeded successfully.")
}
