package main

import (
	"fmt"
	"math/rand"
	"time"
)

// adjectives/animals back solverName, the default name a SolverClient
// logs in with; randomized so concurrent solver agents don't collide
// on login names.
var adjectives = []string{
	"Brave", "Clever", "Wild", "Swift", "Bold", "Mighty", "Mystic", "Noble",
	"Fierce", "Gentle", "Silent", "Rapid", "Calm", "Proud", "Wise", "Happy",
	"Lucky", "Sneaky", "Cunning", "Bright", "Dark", "Golden", "Silver", "Royal",
}

var animals = []string{
	"Octopus", "Tiger", "Phoenix", "Dragon", "Eagle", "Wolf", "Bear", "Fox",
	"Lion", "Hawk", "Shark", "Panther", "Raven", "Falcon", "Cobra", "Viper",
	"Lynx", "Owl", "Dolphin", "Whale", "Rhino", "Jaguar", "Cheetah", "Leopard",
}

var nameRNG = rand.New(rand.NewSource(time.Now().UnixNano()))

// solverName generates a random AdjectiveAnimalNumber login name for
// solver agent index i.
func solverName(i int) string {
	adjective := adjectives[nameRNG.Intn(len(adjectives))]
	animal := animals[nameRNG.Intn(len(animals))]
	return fmt.Sprintf("%s%s%d", adjective, animal, i)
}
