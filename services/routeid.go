package services

import (
	"fmt"
	"math/rand"
)

var idWords = []string{
	"apple", "banana", "cherry", "date", "elder", "fig", "grape", "honey",
	"kiwi", "lemon", "mango", "nectar", "olive", "peach", "quince", "rasp",
	"straw", "tangerine", "ugli", "vanilla", "water", "xigua", "yam", "zucchini",
}
var idColors = []string{"red", "blue", "green", "yellow", "purple"}
var idNouns = []string{"apple", "banana", "cherry", "date", "elder"}

// GenerateRouteID 生成可读的三段式线路编号
func GenerateRouteID() string {
	return fmt.Sprintf("%s-%s-%s",
		idWords[rand.Intn(len(idWords))],
		idColors[rand.Intn(len(idColors))],
		idNouns[rand.Intn(len(idNouns))])
}
