package model

import "gorm.io/gorm"

// Subscription links a subscriber to the channel (user) they follow.
// One row per (subscriber, channel) pair.
type Subscription struct {
	gorm.Model
	SubscriberID uint `gorm:"column:subscriber_id;not null;uniqueIndex:idx_subscriptions_pair"`
	ChannelID    uint `gorm:"column:channel_id;not null;uniqueIndex:idx_subscriptions_pair;index"`
	Subscriber   User `gorm:"foreignKey:SubscriberID"`
	Channel      User `gorm:"foreignKey:ChannelID"`
}
