package postgres_adapter

import (
	"context"
	"fmt"
	"time"

	"saved-search-service/internal/contextkeys"
	"saved-search-service/internal/core/port"
	"saved-search-service/pkg/geo"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type seedDistrict struct {
	city  string
	name  string
	wards []string
}

type seedUser struct {
	email    string
	fullName string
	role     string
}

type seedPost struct {
	ownerEmail      string
	title           string
	description     string
	price           float64
	transactionType string
	status          string
	ageDays         int
	ttlDays         int
	latitude        float64
	longitude       float64
	fullAddress     string
	city            string
	district        string
	ward            string
}

var seedCities = []string{
	"Hà Nội", "TP. Hồ Chí Minh", "Đà Nẵng", "Hải Phòng", "Cần Thơ",
	"An Giang", "Bà Rịa - Vũng Tàu", "Bắc Giang", "Bắc Kạn", "Bạc Liêu",
}

var seedDistricts = []seedDistrict{
	{"Hà Nội", "Quận Ba Đình", []string{"Phường Phúc Xá", "Phường Trúc Bạch", "Phường Vĩnh Phúc", "Phường Cống Vị", "Phường Liễu Giai"}},
	{"Hà Nội", "Quận Hoàn Kiếm", []string{"Phường Phúc Tân", "Phường Đồng Xuân", "Phường Hàng Bạc", "Phường Hàng Buồm", "Phường Hàng Đào"}},
	{"Hà Nội", "Quận Tây Hồ", nil},
	{"Hà Nội", "Quận Long Biên", nil},
	{"Hà Nội", "Quận Cầu Giấy", nil},
	{"Hà Nội", "Quận Đống Đa", nil},
	{"Hà Nội", "Quận Hai Bà Trưng", nil},
	{"Hà Nội", "Quận Hoàng Mai", nil},
	{"Hà Nội", "Quận Thanh Xuân", nil},
	{"TP. Hồ Chí Minh", "Quận 1", []string{"Phường Bến Nghé", "Phường Bến Thành", "Phường Cô Giang", "Phường Cầu Kho", "Phường Cầu Ông Lãnh"}},
	{"TP. Hồ Chí Minh", "Quận 2", []string{"Phường An Phú", "Phường An Khánh", "Phường Bình An", "Phường Bình Khánh", "Phường Bình Trưng Đông"}},
	{"TP. Hồ Chí Minh", "Quận 3", nil},
	{"TP. Hồ Chí Minh", "Quận 4", nil},
	{"TP. Hồ Chí Minh", "Quận 5", nil},
	{"TP. Hồ Chí Minh", "Quận 7", nil},
	{"TP. Hồ Chí Minh", "Quận Bình Thạnh", nil},
	{"TP. Hồ Chí Minh", "Quận Tân Bình", nil},
	{"TP. Hồ Chí Minh", "Quận Tân Phú", nil},
	{"TP. Hồ Chí Minh", "Quận Phú Nhuận", nil},
	{"Đà Nẵng", "Quận Hải Châu", []string{"Phường Hải Châu I", "Phường Hải Châu II", "Phường Phước Ninh", "Phường Thuận Phước", "Phường Thanh Bình"}},
	{"Đà Nẵng", "Quận Thanh Khê", nil},
	{"Đà Nẵng", "Quận Sơn Trà", nil},
	{"Đà Nẵng", "Quận Ngũ Hành Sơn", nil},
	{"Đà Nẵng", "Quận Liên Chiểu", nil},
}

var seedUsers = []seedUser{
	{"admin@realestate.com", "Admin", "Admin"},
	{"user1@example.com", "Nguyễn Văn A", "User"},
	{"user2@example.com", "Trần Thị B", "Pro_1"},
	{"user3@example.com", "Lê Văn C", "Pro_3"},
}

var seedPosts = []seedPost{
	{
		ownerEmail:      "user2@example.com",
		title:           "Biệt thự sang trọng tại Ba Đình, Hà Nội",
		description:     "Biệt thự 3 tầng, diện tích 200m², thiết kế hiện đại, nội thất cao cấp.",
		price:           15.5,
		transactionType: "Sale",
		status:          "Active",
		ageDays:         5,
		ttlDays:         25,
		latitude:        21.0278,
		longitude:       105.8342,
		fullAddress:     "Đường Hoàng Hoa Thám, Phường Phúc Xá, Quận Ba Đình, Hà Nội",
		city:            "Hà Nội",
		district:        "Quận Ba Đình",
		ward:            "Phường Phúc Xá",
	},
	{
		ownerEmail:      "user3@example.com",
		title:           "Căn hộ cao cấp Quận 1, TP. HCM - View đẹp",
		description:     "Căn hộ 2PN 2WC, diện tích 75m², view thành phố tuyệt đẹp.",
		price:           8.5,
		transactionType: "Sale",
		status:          "Active",
		ageDays:         3,
		ttlDays:         27,
		latitude:        10.7769,
		longitude:       106.6297,
		fullAddress:     "Đường Nguyễn Huệ, Phường Bến Nghé, Quận 1, TP. Hồ Chí Minh",
		city:            "TP. Hồ Chí Minh",
		district:        "Quận 1",
		ward:            "Phường Bến Nghé",
	},
	{
		ownerEmail:      "user1@example.com",
		title:           "Nhà phố 4 tầng cho thuê tại Hoàn Kiếm",
		description:     "Nhà phố 4 tầng, diện tích 100m², mặt tiền 5m.",
		price:           25,
		transactionType: "Rent",
		status:          "Active",
		ageDays:         7,
		ttlDays:         23,
		latitude:        21.0285,
		longitude:       105.85,
		fullAddress:     "Phố Hàng Đào, Phường Hàng Đào, Quận Hoàn Kiếm, Hà Nội",
		city:            "Hà Nội",
		district:        "Quận Hoàn Kiếm",
		ward:            "Phường Hàng Đào",
	},
	{
		ownerEmail:      "user2@example.com",
		title:           "Đất nền dự án Quận 2, TP. HCM - Sổ hồng",
		description:     "Đất nền 150m² trong dự án đã hoàn thiện hạ tầng.",
		price:           12,
		transactionType: "Sale",
		status:          "Active",
		ageDays:         2,
		ttlDays:         28,
		latitude:        10.8,
		longitude:       106.75,
		fullAddress:     "Đường Nguyễn Duy Trinh, Phường An Phú, Quận 2, TP. Hồ Chí Minh",
		city:            "TP. Hồ Chí Minh",
		district:        "Quận 2",
		ward:            "Phường An Phú",
	},
	{
		ownerEmail:      "user1@example.com",
		title:           "Phòng trọ sạch sẽ, đầy đủ tiện nghi tại Đà Nẵng",
		description:     "Phòng trọ 25m², có điều hòa, nóng lạnh, wifi, giường tủ.",
		price:           3.5,
		transactionType: "Rent",
		status:          "Pending",
		ageDays:         4,
		latitude:        16.0544,
		longitude:       108.2022,
		fullAddress:     "Đường Trần Phú, Phường Hải Châu I, Quận Hải Châu, Đà Nẵng",
		city:            "Đà Nẵng",
		district:        "Quận Hải Châu",
		ward:            "Phường Hải Châu I",
	},
}

// SeedReferenceData заполняет справочник локаций и демонстрационные данные.
// Повторный запуск ничего не дублирует.
func SeedReferenceData(ctx context.Context, pool *pgxpool.Pool) error {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"component": "Seeder"})

	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, city := range seedCities {
		if _, err := tx.Exec(ctx, `INSERT INTO cities (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, city); err != nil {
			return fmt.Errorf("failed to seed city %q: %w", city, err)
		}
	}

	for _, d := range seedDistricts {
		_, err := tx.Exec(ctx, `
			INSERT INTO districts (city_id, name)
			SELECT id, $2 FROM cities WHERE name = $1
			ON CONFLICT (city_id, name) DO NOTHING`, d.city, d.name)
		if err != nil {
			return fmt.Errorf("failed to seed district %q: %w", d.name, err)
		}
		for _, ward := range d.wards {
			_, err := tx.Exec(ctx, `
				INSERT INTO wards (district_id, name)
				SELECT d.id, $3 FROM districts d JOIN cities c ON c.id = d.city_id
				WHERE c.name = $1 AND d.name = $2
				ON CONFLICT (district_id, name) DO NOTHING`, d.city, d.name, ward)
			if err != nil {
				return fmt.Errorf("failed to seed ward %q: %w", ward, err)
			}
		}
	}

	for _, u := range seedUsers {
		_, err := tx.Exec(ctx, `INSERT INTO users (email, full_name, role) VALUES ($1, $2, $3)
			ON CONFLICT (email) DO NOTHING`, u.email, u.fullName, u.role)
		if err != nil {
			return fmt.Errorf("failed to seed user %q: %w", u.email, err)
		}
	}

	inserted, err := seedDemoPosts(ctx, tx, time.Now().UTC())
	if err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit seed transaction: %w", err)
	}

	logger.Info("Reference data seeded", port.Fields{
		"cities":    len(seedCities),
		"districts": len(seedDistricts),
		"users":     len(seedUsers),
		"new_posts": inserted,
	})
	return nil
}

func seedDemoPosts(ctx context.Context, tx pgx.Tx, now time.Time) (int, error) {
	inserted := 0
	for _, p := range seedPosts {
		var expiry *time.Time
		if p.ttlDays > 0 {
			e := now.AddDate(0, 0, p.ttlDays)
			expiry = &e
		}

		cmdTag, err := tx.Exec(ctx, `
			INSERT INTO posts (user_id, title, description, price, transaction_type, status, expiry_date,
				latitude, longitude, geohash, full_address, city_id, district_id, ward_id, created_at)
			SELECT u.id, $2::text, $3::text, $4::double precision, $5::text, $6::text, $7::timestamptz,
				$8::double precision, $9::double precision, $10::text, $11::text, c.id, d.id, w.id, $15::timestamptz
			FROM users u
			LEFT JOIN cities c ON c.name = $12
			LEFT JOIN districts d ON d.city_id = c.id AND d.name = $13
			LEFT JOIN wards w ON w.district_id = d.id AND w.name = $14
			WHERE u.email = $1
				AND NOT EXISTS (SELECT 1 FROM posts p WHERE p.user_id = u.id AND p.title = $2)`,
			p.ownerEmail, p.title, p.description, p.price, p.transactionType, p.status, expiry,
			p.latitude, p.longitude, geo.Encode(p.latitude, p.longitude), p.fullAddress,
			p.city, p.district, p.ward, now.AddDate(0, 0, -p.ageDays))
		if err != nil {
			return inserted, fmt.Errorf("failed to seed post %q: %w", p.title, err)
		}
		inserted += int(cmdTag.RowsAffected())
	}
	return inserted, nil
}
