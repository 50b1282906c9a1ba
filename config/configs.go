package config

import (
	"encoding/xml"
	"fmt"
	"os"
)

var MainRouter string
var StoreURL string
var SheetID string
var HelpersDir string
var Download string
var DefaultRegion string
var FetchWorkers int
var GeocodeURL string
var MainConfig Config

type Config struct {
	XMLName       xml.Name `xml:"config"`
	MainRouter    string   `xml:"MainRouter"`
	StoreURL      string   `xml:"StoreURL"`
	SheetID       string   `xml:"SheetID"`
	HelpersDir    string   `xml:"HelpersDir"`
	Download      string   `xml:"download"`
	DefaultRegion string   `xml:"DefaultRegion"`
	FetchWorkers  int      `xml:"FetchWorkers"`
	GeocodeURL    string   `xml:"GeocodeURL"`
}

func init() {

	xmlFile, err := os.Open("config.xml")
	if err != nil {
		fmt.Println("Error  opening  file:", err)
		return
	}
	defer xmlFile.Close()

	xmlDecoder := xml.NewDecoder(xmlFile)
	err = xmlDecoder.Decode(&MainConfig)
	if err != nil {
		fmt.Println("Error  decoding  XML:", err)
		return
	}
	MainRouter = MainConfig.MainRouter
	StoreURL = MainConfig.StoreURL
	SheetID = MainConfig.SheetID
	HelpersDir = MainConfig.HelpersDir
	Download = MainConfig.Download
	DefaultRegion = MainConfig.DefaultRegion
	FetchWorkers = MainConfig.FetchWorkers
	GeocodeURL = MainConfig.GeocodeURL
	if FetchWorkers <= 0 {
		FetchWorkers = 4
	}
}
