package testdata

import "github.com/brianvoe/gofakeit/v7"

func RandomName() string {
	return gofakeit.ProductName()
}

func RandomDescription() string {
	return gofakeit.Sentence(8)
}

func RandomQuestionTitle() string {
	return gofakeit.Question()
}

func RandomEmail() string {
	return gofakeit.Email()
}

func RandomPhoneNumber() string {
	return gofakeit.Phone()
}

func RandomFirstName() string {
	return gofakeit.FirstName()
}

func RandomLastName() string {
	return gofakeit.LastName()
}
