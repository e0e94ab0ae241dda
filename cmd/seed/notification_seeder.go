package main

import (
	"log"

	"fintrust-support-be/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SeedNotificationTypes populates the registry rows the notification worker
// and the message pipeline resolve event codes against.
func SeedNotificationTypes(db *gorm.DB) {
	types := []model.NotificationType{
		{
			Code:        "NEW_MESSAGE",
			DisplayName: "New Message",
			Template:    "{actor} sent you a new message",
			TargetType:  "SELF",
			IsActive:    true,
			Channels:    datatypes.JSON([]byte(`["web"]`)),
		},
		{
			Code:        "CUSTOMER_ASSIGNED",
			DisplayName: "Customer Assigned",
			Template:    "A customer was assigned to you in department {department_id}",
			TargetType:  "SELF",
			IsActive:    true,
			Channels:    datatypes.JSON([]byte(`["web"]`)),
		},
		{
			Code:        "CHAT_TAKEN_OVER",
			DisplayName: "Chat Taken Over",
			Template:    "Your conversation was taken over by another support agent",
			TargetType:  "SELF",
			IsActive:    true,
			Channels:    datatypes.JSON([]byte(`["web"]`)),
		},
		{
			Code:        "CHAT_STATUS_CHANGED",
			DisplayName: "Request Status Updated",
			Template:    "Your support request is now {status}",
			TargetType:  "SELF",
			IsActive:    true,
			Channels:    datatypes.JSON([]byte(`["web", "email"]`)),
		},
		{
			Code:        "GROUP_CHAT_CREATED",
			DisplayName: "Group Chat Created",
			Template:    "Group chat \"{name}\" was created",
			TargetType:  "ADMIN",
			IsActive:    true,
			Channels:    datatypes.JSON([]byte(`["web"]`)),
		},
	}

	for _, t := range types {
		if err := db.Where("code = ?", t.Code).FirstOrCreate(&t).Error; err != nil {
			log.Printf("Error seeding notification type %s: %v", t.Code, err)
		}
	}
	log.Println("Notification types seeded.")
}
