package domain

type City struct {
	ID   int64
	Name string
}

type District struct {
	ID     int64
	CityID int64
	Name   string
}

type Ward struct {
	ID         int64
	DistrictID int64
	Name       string
}
