package service

import "discord-link-bot/service/age"

type Service struct {
	age *age.AgeService
}

// NewService constructs an object that holds the logic
// behind the bot's commands that does not depend on discord.
func NewService() *Service {
	return &Service{
		age: age.NewAgeService(),
	}
}

// Age returns an object that handles computing and
// formatting account and membership ages.
func (service *Service) Age() *age.AgeService {
	return service.age
}
