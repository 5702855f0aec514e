package sondagebuilder

import (
	"sondage-backend/internal/sondage/question"
)

type Option func(*FactoryParams)

type FactoryParams struct {
	Name        string
	Description string
	Title       string
	AnswerType  question.AnswerType
	Email       string
	PhoneNumber string
	FirstName   string
	LastName    string
}

func WithName(name string) Option {
	return func(p *FactoryParams) { p.Name = name }
}

func WithDescription(description string) Option {
	return func(p *FactoryParams) { p.Description = description }
}

func WithTitle(title string) Option {
	return func(p *FactoryParams) { p.Title = title }
}

func WithAnswerType(answerType question.AnswerType) Option {
	return func(p *FactoryParams) { p.AnswerType = answerType }
}

func WithEmail(email string) Option {
	return func(p *FactoryParams) { p.Email = email }
}

func WithPhoneNumber(phoneNumber string) Option {
	return func(p *FactoryParams) { p.PhoneNumber = phoneNumber }
}

func WithFirstName(firstName string) Option {
	return func(p *FactoryParams) { p.FirstName = firstName }
}

func WithLastName(lastName string) Option {
	return func(p *FactoryParams) { p.LastName = lastName }
}
