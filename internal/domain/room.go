package domain

type RoomName string

// MainRoom is the only room; every participant joins it.
const MainRoom RoomName = "main-webinar"

type Room struct {
	Name RoomName
}
