package mysql

// -----------------------------------------------------------------------------
// DESTINATIONS
// -----------------------------------------------------------------------------

const destinationCols = `id, name, country, city, description, category, latitude, longitude, popularity_score, image_url`

const selectDestinationsSQL = `SELECT ` + destinationCols + ` FROM destinations`

const getDestinationSQL = selectDestinationsSQL + ` WHERE id = ?`

const insertDestinationSQL = `
INSERT INTO destinations
  (name, country, city, description, category, latitude, longitude, popularity_score, image_url)
VALUES
  (:name, :country, :city, :description, :category, :latitude, :longitude, :popularity_score, :image_url)
`

const updateDestinationSQL = `
UPDATE destinations SET
  name             = :name,
  country          = :country,
  city             = :city,
  description      = :description,
  category         = :category,
  latitude         = :latitude,
  longitude        = :longitude,
  popularity_score = :popularity_score,
  image_url        = :image_url
WHERE id = :id
`

const deleteDestinationSQL = `DELETE FROM destinations WHERE id = ?`

// -----------------------------------------------------------------------------
// HOTELS
// -----------------------------------------------------------------------------

const hotelCols = `id, name, destination_id, address, stars, price_per_night, amenities, rating, image_url`

const selectHotelsSQL = `SELECT ` + hotelCols + ` FROM hotels`

const getHotelSQL = selectHotelsSQL + ` WHERE id = ?`

const insertHotelSQL = `
INSERT INTO hotels
  (name, destination_id, address, stars, price_per_night, amenities, rating, image_url)
VALUES
  (:name, :destination_id, :address, :stars, :price_per_night, :amenities, :rating, :image_url)
`

const updateHotelSQL = `
UPDATE hotels SET
  name            = :name,
  destination_id  = :destination_id,
  address         = :address,
  stars           = :stars,
  price_per_night = :price_per_night,
  amenities       = :amenities,
  rating          = :rating,
  image_url       = :image_url
WHERE id = :id
`

const deleteHotelSQL = `DELETE FROM hotels WHERE id = ?`

// -----------------------------------------------------------------------------
// ACTIVITIES
// -----------------------------------------------------------------------------

const activityCols = `id, name, destination_id, description, type, price, duration, rating, image_url`

const selectActivitiesSQL = `SELECT ` + activityCols + ` FROM activities`

const getActivitySQL = selectActivitiesSQL + ` WHERE id = ?`

const insertActivitySQL = `
INSERT INTO activities
  (name, destination_id, description, type, price, duration, rating, image_url)
VALUES
  (:name, :destination_id, :description, :type, :price, :duration, :rating, :image_url)
`

const updateActivitySQL = `
UPDATE activities SET
  name           = :name,
  destination_id = :destination_id,
  description    = :description,
  type           = :type,
  price          = :price,
  duration       = :duration,
  rating         = :rating,
  image_url      = :image_url
WHERE id = :id
`

const deleteActivitySQL = `DELETE FROM activities WHERE id = ?`

// -----------------------------------------------------------------------------
// USERS
// -----------------------------------------------------------------------------

// username is NULL when unset so the unique index ignores it.
const userCols = `id, first_name, last_name, email, COALESCE(username, '') AS username, password, role, enabled, country, preferences, created_at`

const selectUsersSQL = `SELECT ` + userCols + ` FROM users`

const getUserSQL = selectUsersSQL + ` WHERE id = ?`

const getUserByEmailSQL = selectUsersSQL + ` WHERE email = ?`

const getUserByUsernameSQL = selectUsersSQL + ` WHERE username = ?`

const insertUserSQL = `
INSERT INTO users
  (first_name, last_name, email, username, password, role, enabled, country, preferences, created_at)
VALUES
  (:first_name, :last_name, :email, NULLIF(:username, ''), :password, :role, :enabled, :country, :preferences, :created_at)
`

// created_at is write-once.
const updateUserSQL = `
UPDATE users SET
  first_name  = :first_name,
  last_name   = :last_name,
  email       = :email,
  username    = NULLIF(:username, ''),
  password    = :password,
  role        = :role,
  enabled     = :enabled,
  country     = :country,
  preferences = :preferences
WHERE id = :id
`

const deleteUserSQL = `DELETE FROM users WHERE id = ?`
