package geo

import (
	"math"

	"github.com/mmcloughlin/geohash"
)

// HashPrecision точность geohash, с которой хранятся координаты объявлений.
const HashPrecision uint = 9

// Encode кодирует координаты объявления в geohash для пространственного префильтра.
func Encode(lat, lon float64) string {
	return geohash.EncodeWithPrecision(lat, lon, HashPrecision)
}

// CoveringCells возвращает блок 3x3 ячеек geohash (центральная и восемь соседних),
// который гарантированно содержит круг радиуса radiusKm вокруг точки.
// Выбирается самая мелкая точность, при которой ячейка не меньше радиуса по обеим осям.
// Возвращает nil, если покрытие построить нельзя (полюса, антимеридиан, слишком большой
// радиус, некорректный ввод): в этом случае префильтр не применяется.
func CoveringCells(lat, lon, radiusKm float64) []string {
	if math.IsNaN(lat) || math.IsNaN(lon) || math.IsNaN(radiusKm) ||
		radiusKm <= 0 || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return nil
	}

	// небольшой запас на погрешность округления у границы ячейки
	angular := radiusKm / EarthRadiusKm * 1.01
	dLat := angular * 180 / math.Pi
	if math.Abs(lat)+dLat >= 89 {
		return nil
	}
	// максимальное отклонение по долготе для сферической шапки с центром на широте lat
	sinLon := math.Sin(angular) / math.Cos(toRadians(lat))
	if sinLon >= 1 {
		return nil
	}
	dLon := math.Asin(sinLon) * 180 / math.Pi
	if lon-dLon < -180 || lon+dLon > 180 {
		return nil
	}

	for precision := HashPrecision; precision >= 1; precision-- {
		box := geohash.BoundingBox(geohash.EncodeWithPrecision(lat, lon, precision))
		if box.MaxLat-box.MinLat < dLat || box.MaxLng-box.MinLng < dLon {
			continue
		}
		center := geohash.EncodeWithPrecision(lat, lon, precision)
		cells := make([]string, 0, 9)
		cells = append(cells, center)
		cells = append(cells, geohash.Neighbors(center)...)
		return cells
	}
	return nil
}
