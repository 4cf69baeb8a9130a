/*
Package errs provides custom error types and application-level error code constants.

This file defines the map from error codes to the CustomError struct, used to
standardize responses and internal error handling. Move validation and room
errors carry the player-facing Russian texts; transport-level errors stay
internal-facing.
*/
package errs

import "net/http"

// errorMap stores the detailed CustomError struct corresponding to every application error code.
// The key is the error code (int), and the value contains the user message and HTTP status code.
var errorMap = map[int]CustomError{
	// 1xxx: General Request Handling Errors
	ErrInvalidParams:        {Code: ErrInvalidParams, Message: "Invalid request parameters."},
	ErrUnsupportedMediaType: {Code: ErrUnsupportedMediaType, Message: "Unsupported request format."},
	ErrInvalidJSONFormat:    {Code: ErrInvalidJSONFormat, Message: "Unsupported request format."},
	ErrExtraContentInBody:   {Code: ErrExtraContentInBody, Message: "Request contains unexpected data."},
	ErrRateLimitExceeded:    {Code: ErrRateLimitExceeded, Message: "Too many requests. Please try again later.", Status: http.StatusTooManyRequests},

	// 21xx: Room Lifecycle Errors
	ErrRoomNotFound:  {Code: ErrRoomNotFound, Message: "Комната %s не найдена."},
	ErrRoomFull:      {Code: ErrRoomFull, Message: "Комната %s уже заполнена."},
	ErrAlreadyInGame: {Code: ErrAlreadyInGame, Message: "Вы уже участвуете в игре в комнате. Завершите её командой /stop."},

	// 22xx: Move Validation Errors
	ErrCityTooShort:    {Code: ErrCityTooShort, Message: "Пожалуйста, введите полное название города."},
	ErrCityAlreadyUsed: {Code: ErrCityAlreadyUsed, Message: "Город %s уже был назван. Попробуйте другой."},
	ErrWrongLetter:     {Code: ErrWrongLetter, Message: "Название города должно начинаться на букву '%s'. Попробуйте еще раз."},
	ErrCityUnknown:     {Code: ErrCityUnknown, Message: "Я не знаю такого города в России. Попробуйте еще раз."},

	// 23xx: Turn Discipline Errors
	ErrSideChannelExhausted: {Code: ErrSideChannelExhausted, Message: "Вы уже отправили сообщение во время хода соперника. Подождите своей очереди."},

	// 24xx: Upstream Errors
	ErrCityInfoUnavailable: {Code: ErrCityInfoUnavailable, Message: "Не удалось получить информацию о городе. Попробуйте позже."},

	// 3xxx: User, Session, and Security Errors
	ErrUnauthorized:  {Code: ErrUnauthorized, Message: "Please sign in to continue.", Status: http.StatusUnauthorized},
	ErrSessionKicked: {Code: ErrSessionKicked, Message: "You were signed in on another device."},

	// 5xxx: Internal System Errors
	ErrUnknown: {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
}
