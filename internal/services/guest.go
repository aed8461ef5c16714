package services

import (
	"crypto/rand"
	"fmt"
	mrand "math/rand/v2"

	"github.com/samber/lo"
)

var adjectives = []string{
	"Ancient", "Arcane", "Atomic", "Binary", "Bold", "Brave", "Bright",
	"Calm", "Clever", "Cosmic", "Crimson", "Cyber", "Digital", "Eager",
	"Emerald", "Fierce", "Frost", "Gentle", "Golden", "Grand", "Happy",
	"Iron", "Jolly", "Keen", "Kind", "Lively", "Lucky", "Lunar", "Mythic",
	"Noble", "Proud", "Quantum", "Quick", "Ruby", "Shadow", "Silent",
	"Solar", "Steel", "Storm", "Sunny", "Swift", "Vivid", "Wise", "Witty",
}

var nouns = []string{
	"Bear", "Bird", "Blade", "Bot", "Byte", "Cat", "Circuit", "Core",
	"Crown", "Dragon", "Droid", "Eagle", "Echo", "Fox", "Ghost", "Golem",
	"Gryphon", "Hawk", "Jaguar", "Knight", "Lion", "Mage", "Node", "Panda",
	"Pilot", "Pixel", "Pulse", "Ranger", "Rover", "Sage", "Scout", "Shark",
	"Spirit", "Sprite", "Tiger", "Warden", "Wizard", "Wolf",
}

var greetings = []string{
	"Hello from", "Hey, it's", "Greetings from", "Hi there, this is",
	"What's up from", "Good day from", "Cheers from", "Howdy from",
	"Salutations from", "Good vibes from", "Best wishes from", "Peace from",
	"A wave from", "Quick hi from", "Hey everyone, it's",
}

// RandomUsername имя вида AdjectiveNounNN
func RandomUsername() string {
	return fmt.Sprintf("%s%s%d", lo.Sample(adjectives), lo.Sample(nouns), mrand.IntN(90)+10)
}

// RandomPassword пароль гостя, возвращается клиенту один раз
func RandomPassword() string {
	return rand.Text()
}

// RandomGreeting приветствие гостя в общей комнате
func RandomGreeting(username string) string {
	return lo.Sample(greetings) + " " + username + "!"
}
